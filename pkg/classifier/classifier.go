// Package classifier implements the deterministic fallback content
// classifier: a pure function from (filename, MIME type) to a reproducible
// pseudo-anomaly classification. It is used whenever the external inference
// service is unconfigured or unavailable. No file bytes are ever read; the
// filename is only a seed source, so the same input always yields the same
// result.
package classifier

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

const (
	// anomalyThreshold separates actionable anomalies from uncertain ones.
	anomalyThreshold = 0.50
	// reportThreshold is the looser bar for surfacing a detection at all.
	reportThreshold = 0.35

	minDisplayConfidence = 0.35
	maxDisplayConfidence = 0.99

	modelVideoFallback = "Fallback Detection (video)"
	modelImageFallback = "Fallback Detection (image)"
)

var (
	weaponKeywords   = []string{"gun", "weapon", "pistol", "rifle", "knife", "armed"}
	burglaryKeywords = []string{"burglar", "thief", "robbery", "break", "steal", "intrude"}
	fightKeywords    = []string{"fight", "violence", "assault", "attack"}
	movementKeywords = []string{"running", "chase", "escape", "movement"}

	videoTrainingDatasets = []string{"UCF-Crime", "RWF-2000", "Kinetics-400"}
	imageTrainingDatasets = []string{"COCO 2017", "Open Images V7"}
)

// Input identifies an upload to classify. The filename must be non-empty;
// the MIME type must start with "image/" or "video/" for a supported result.
type Input struct {
	Filename string
	MimeType string
}

// rule is one rung of a classification ladder. Keyword gates and the r
// threshold are checked independently; the first matching rule wins.
type rule struct {
	keywords  []string
	threshold float64
	category  AnomalyType
	severity  Severity
	confBase  float64
	confSpan  float64
}

// The two ladders are deliberately independent: swapping the media kind for
// the same filename must exercise different thresholds (and typically yield
// a different severity) even though the seed is identical.
var videoLadder = []rule{
	{weaponKeywords, 0.75, AnomalyWeaponDetected, SeverityCritical, 0.88, 0.11},
	{burglaryKeywords, 0.65, AnomalyBurglary, SeverityCritical, 0.82, 0.15},
	{fightKeywords, 0.55, AnomalyFighting, SeverityHigh, 0.75, 0.20},
	{movementKeywords, 0.45, AnomalySuspiciousActivity, SeverityMedium, 0.65, 0.25},
	{nil, 0.35, AnomalyTrespassing, SeverityMedium, 0.55, 0.30},
	{nil, 0.20, AnomalyLoitering, SeverityLow, 0.40, 0.25},
}

var imageLadder = []rule{
	{weaponKeywords, 0.85, AnomalyWeaponDetected, SeverityCritical, 0.85, 0.14},
	{burglaryKeywords, 0.75, AnomalyBurglary, SeverityCritical, 0.78, 0.17},
	{fightKeywords, 0.70, AnomalyFighting, SeverityHigh, 0.72, 0.18},
	{nil, 0.60, AnomalyTrespassing, SeverityHigh, 0.65, 0.25},
	{nil, 0.45, AnomalySuspiciousActivity, SeverityMedium, 0.50, 0.30},
	{nil, 0.30, AnomalyLoitering, SeverityLow, 0.35, 0.25},
}

// Terminal rungs used when nothing above matched.
var (
	videoNormal = rule{nil, -1, AnomalyNormal, SeverityLow, 0.25, 0.30}
	imageNormal = rule{nil, -1, AnomalyNormal, SeverityLow, 0.20, 0.30}
)

// Classify derives a reproducible pseudo-classification from the upload's
// filename and media kind. It never fails for a supported media type; an
// unsupported MIME type yields a well-formed zero-confidence result with the
// Error field set, not an error return.
func Classify(in Input) Result {
	isVideo := strings.HasPrefix(in.MimeType, "video/")
	isImage := strings.HasPrefix(in.MimeType, "image/")
	if !isVideo && !isImage {
		return unsupportedResult(in.MimeType)
	}

	seed := filenameSeed(in.Filename)
	r := float64(seed%1000) / 1000.0
	lower := strings.ToLower(in.Filename)

	ladder := imageLadder
	terminal := imageNormal
	if isVideo {
		ladder = videoLadder
		terminal = videoNormal
	}

	matched := terminal
	for _, rung := range ladder {
		if matchesKeyword(lower, rung.keywords) || r > rung.threshold {
			matched = rung
			break
		}
	}

	confidence := matched.confBase + r*matched.confSpan
	isAnomaly := matched.category != AnomalyNormal && confidence >= anomalyThreshold

	severity := matched.severity
	if confidence < anomalyThreshold {
		severity = SeverityUncertain
	}

	action := ActionNone
	switch {
	case confidence < anomalyThreshold:
		action = ActionManualReview
	case isAnomaly:
		action = ActionAlert
	}

	model := modelImageFallback
	if isVideo {
		model = modelVideoFallback
	}

	return Result{
		AnomalyDetected:   isAnomaly || confidence >= reportThreshold,
		AnomalyType:       matched.category,
		Severity:          severity,
		Confidence:        clamp(confidence, minDisplayConfidence, maxDisplayConfidence),
		Description:       describe(matched.category, confidence, isVideo),
		RecommendedAction: action,
		BoundingBoxes:     generateBoxes(seed, matched.category, confidence, severity, isAnomaly),
		ModelUsed:         model,
		ProcessingTimeMs:  processingTimeMs(r, isVideo),
		Metadata:          buildMetadata(r, isVideo),
	}
}

// filenameSeed sums the UTF-16 code units of the filename. UTF-16 (not
// bytes, not code points) keeps the seed stable across reimplementations
// for non-ASCII filenames.
func filenameSeed(filename string) int {
	sum := 0
	for _, u := range utf16.Encode([]rune(filename)) {
		sum += int(u)
	}
	return sum
}

func matchesKeyword(lowerName string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerName, kw) {
			return true
		}
	}
	return false
}

func describe(category AnomalyType, confidence float64, isVideo bool) string {
	kind := "image"
	if isVideo {
		kind = "video footage"
	}
	label := strings.ReplaceAll(string(category), "_", " ")
	if confidence < anomalyThreshold {
		return fmt.Sprintf("Uncertain detection: possible %s in %s (%.0f%% confidence)",
			label, kind, confidence*100)
	}
	if category == AnomalyNormal {
		return fmt.Sprintf("No anomaly detected in %s (%.0f%% confidence)", kind, confidence*100)
	}
	return fmt.Sprintf("%s detected in %s (%.0f%% confidence)",
		strings.ToUpper(label[:1])+label[1:], kind, confidence*100)
}

func processingTimeMs(r float64, isVideo bool) int {
	if isVideo {
		return int(2500 + r*2000)
	}
	return int(1500 + r*1000)
}

func buildMetadata(r float64, isVideo bool) Metadata {
	if isVideo {
		return Metadata{
			FileType:         "video",
			AnalysisMethod:   "simulated_temporal_analysis",
			FrameCount:       int(5 + r*10),
			PrivacyEpsilon:   0.08 + r*0.04,
			PrivacyDelta:     0.00001,
			TrainingDatasets: videoTrainingDatasets,
		}
	}
	return Metadata{
		FileType:         "image",
		AnalysisMethod:   "simulated_spatial_analysis",
		FrameCount:       1,
		PrivacyEpsilon:   0.08 + r*0.04,
		PrivacyDelta:     0.00001,
		TrainingDatasets: imageTrainingDatasets,
	}
}

func unsupportedResult(mimeType string) Result {
	return Result{
		AnomalyDetected:   false,
		AnomalyType:       AnomalyNormal,
		Severity:          SeverityLow,
		Confidence:        0,
		Description:       "Unsupported file type; only image and video uploads are analyzed",
		RecommendedAction: ActionNone,
		BoundingBoxes:     nil,
		ModelUsed:         "none",
		ProcessingTimeMs:  0,
		Error:             fmt.Sprintf("unsupported file type: %s", mimeType),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
