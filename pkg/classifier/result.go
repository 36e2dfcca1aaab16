package classifier

// AnomalyType is the category assigned to an analyzed upload.
type AnomalyType string

const (
	AnomalyWeaponDetected     AnomalyType = "weapon_detected"
	AnomalyBurglary           AnomalyType = "burglary"
	AnomalyFighting           AnomalyType = "fighting"
	AnomalySuspiciousActivity AnomalyType = "suspicious_activity"
	AnomalyTrespassing        AnomalyType = "trespassing"
	AnomalyLoitering          AnomalyType = "loitering"
	AnomalyNormal             AnomalyType = "normal"
)

// Severity mirrors the levels reported by the external inference service,
// plus "uncertain" for low-confidence results.
type Severity string

const (
	SeverityLow       Severity = "low"
	SeverityMedium    Severity = "medium"
	SeverityHigh      Severity = "high"
	SeverityCritical  Severity = "critical"
	SeverityUncertain Severity = "uncertain"
)

// Action is the follow-up the platform recommends for a result.
type Action string

const (
	ActionNone         Action = "none"
	ActionAlert        Action = "alert"
	ActionManualReview Action = "manual_review"
)

// BoundingBox is a synthetic detection box. Coordinates live in an assumed
// canvas and are never validated against real media dimensions.
type BoundingBox struct {
	ClassName  string     `json:"class"`
	Confidence float64    `json:"confidence"`
	Box        [4]float64 `json:"bbox"`
	IsAnomaly  bool       `json:"is_anomaly"`
	Priority   string     `json:"priority"`
}

// Metadata carries the synthetic analysis context attached to every result.
type Metadata struct {
	FileType         string   `json:"file_type"`
	AnalysisMethod   string   `json:"analysis_method"`
	FrameCount       int      `json:"frame_count"`
	PrivacyEpsilon   float64  `json:"privacy_epsilon"`
	PrivacyDelta     float64  `json:"privacy_delta"`
	TrainingDatasets []string `json:"training_datasets"`
}

// Result is the classification handed back to the caller. It is immutable
// once produced; field names follow the inference service wire contract.
type Result struct {
	AnomalyDetected   bool          `json:"anomaly_detected"`
	AnomalyType       AnomalyType   `json:"anomaly_type"`
	Severity          Severity      `json:"severity"`
	Confidence        float64       `json:"confidence"`
	Description       string        `json:"description"`
	RecommendedAction Action        `json:"recommended_action"`
	BoundingBoxes     []BoundingBox `json:"bounding_boxes"`
	ModelUsed         string        `json:"model_used"`
	ProcessingTimeMs  int           `json:"processing_time_ms"`
	Metadata          Metadata      `json:"metadata"`
	Error             string        `json:"error,omitempty"`
}

// IsAnomaly reports whether the result counts as an actionable anomaly: a
// non-normal category at confidence 0.50 or above. The looser reported
// AnomalyDetected flag (threshold 0.35) additionally surfaces borderline
// hits as "uncertain" for human review instead of suppressing them.
func (r Result) IsAnomaly() bool {
	return r.AnomalyType != AnomalyNormal && r.Confidence >= anomalyThreshold
}
