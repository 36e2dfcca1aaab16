package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleFilenames = []string{
	"hallway.jpg",
	"yard.mp4",
	"entrance_cam_03.jpg",
	"parking_lot_cam7.mp4",
	"gun_sighting.mp4",
	"burglar_alarm_footage.mp4",
	"fight_outside.jpg",
	"running_track.mp4",
	"Überwachungskamera.jpg",
	"night_shift.mp4",
	"dock_loitering_9.jpg",
	"warehouse.mp4",
}

func mimeFor(name string) string {
	if strings.HasSuffix(name, ".mp4") {
		return "video/mp4"
	}
	return "image/jpeg"
}

func TestClassify_Deterministic(t *testing.T) {
	for _, name := range sampleFilenames {
		in := Input{Filename: name, MimeType: mimeFor(name)}
		first := Classify(in)
		second := Classify(in)
		require.Equal(t, first, second, "repeated classification of %q diverged", name)
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	for _, name := range sampleFilenames {
		res := Classify(Input{Filename: name, MimeType: mimeFor(name)})
		assert.GreaterOrEqual(t, res.Confidence, 0.35, "filename %q", name)
		assert.LessOrEqual(t, res.Confidence, 0.99, "filename %q", name)
	}
}

func TestClassify_UncertainSeverityMatchesConfidence(t *testing.T) {
	for _, name := range sampleFilenames {
		res := Classify(Input{Filename: name, MimeType: mimeFor(name)})
		if res.Severity == SeverityUncertain {
			assert.Less(t, res.Confidence, 0.50, "filename %q", name)
			assert.Equal(t, ActionManualReview, res.RecommendedAction, "filename %q", name)
		} else {
			assert.GreaterOrEqual(t, res.Confidence, 0.50, "filename %q", name)
		}
	}
}

func TestClassify_UnsupportedMimeType(t *testing.T) {
	res := Classify(Input{Filename: "report.pdf", MimeType: "application/pdf"})

	assert.False(t, res.AnomalyDetected)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.BoundingBoxes)
	assert.Equal(t, ActionNone, res.RecommendedAction)
}

func TestClassify_KeywordLadderOrder(t *testing.T) {
	// Contains both a weapon keyword ("armed") and a burglary keyword
	// ("robbery"); the weapon rung sits higher in the ladder and must win.
	res := Classify(Input{Filename: "armed_robbery_clip.mp4", MimeType: "video/mp4"})

	assert.Equal(t, AnomalyWeaponDetected, res.AnomalyType)
	assert.Equal(t, SeverityCritical, res.Severity)
	assert.GreaterOrEqual(t, res.Confidence, 0.88)
	assert.True(t, res.AnomalyDetected)
	assert.Equal(t, ActionAlert, res.RecommendedAction)
}

func TestClassify_BoxCountInvariant(t *testing.T) {
	for _, name := range sampleFilenames {
		res := Classify(Input{Filename: name, MimeType: mimeFor(name)})
		if res.IsAnomaly() {
			assert.Contains(t, []int{1, 2}, len(res.BoundingBoxes), "filename %q", name)
			first := res.BoundingBoxes[0]
			assert.True(t, first.IsAnomaly, "filename %q", name)
			assert.Equal(t, strings.ReplaceAll(string(res.AnomalyType), "_", " "), first.ClassName)
		} else {
			require.Len(t, res.BoundingBoxes, 1, "filename %q", name)
			assert.Equal(t, "person", res.BoundingBoxes[0].ClassName)
			assert.False(t, res.BoundingBoxes[0].IsAnomaly)
			assert.Equal(t, "normal", res.BoundingBoxes[0].Priority)
		}
	}
}

func TestClassify_NormalImage(t *testing.T) {
	// "hallway.jpg" sums to seed 1121, so r = 0.121: below every image
	// threshold and free of keywords, which lands on the normal rung with a
	// raw confidence under the reporting bar.
	res := Classify(Input{Filename: "hallway.jpg", MimeType: "image/jpeg"})

	assert.Equal(t, AnomalyNormal, res.AnomalyType)
	assert.False(t, res.AnomalyDetected)
	assert.Equal(t, SeverityUncertain, res.Severity)
	require.Len(t, res.BoundingBoxes, 1)
	assert.Equal(t, "person", res.BoundingBoxes[0].ClassName)
	assert.Equal(t, "image", res.Metadata.FileType)
	assert.Equal(t, 1, res.Metadata.FrameCount)
}

func TestClassify_VideoAndImageLaddersAreIndependent(t *testing.T) {
	// "yard.mp4" sums to seed 751: r = 0.751 clears the video weapon rung
	// (r > 0.75) but on the image ladder falls through to the burglary rung
	// (0.75 < r <= 0.85). Identical seed, different outcome.
	video := Classify(Input{Filename: "yard.mp4", MimeType: "video/mp4"})
	image := Classify(Input{Filename: "yard.mp4", MimeType: "image/jpeg"})

	assert.Equal(t, AnomalyWeaponDetected, video.AnomalyType)
	assert.Equal(t, AnomalyBurglary, image.AnomalyType)
	assert.NotEqual(t, video.Confidence, image.Confidence)
	assert.Equal(t, "video", video.Metadata.FileType)
	assert.Equal(t, "image", image.Metadata.FileType)
	assert.Equal(t, "simulated_temporal_analysis", video.Metadata.AnalysisMethod)
	assert.Equal(t, "simulated_spatial_analysis", image.Metadata.AnalysisMethod)
	assert.NotEqual(t, video.ProcessingTimeMs, image.ProcessingTimeMs)
}

func TestClassify_ProcessingTimeRanges(t *testing.T) {
	for _, name := range sampleFilenames {
		res := Classify(Input{Filename: name, MimeType: mimeFor(name)})
		if res.Metadata.FileType == "video" {
			assert.GreaterOrEqual(t, res.ProcessingTimeMs, 2500, "filename %q", name)
			assert.Less(t, res.ProcessingTimeMs, 4500, "filename %q", name)
		} else {
			assert.GreaterOrEqual(t, res.ProcessingTimeMs, 1500, "filename %q", name)
			assert.Less(t, res.ProcessingTimeMs, 2500, "filename %q", name)
		}
	}
}

func TestClassify_MetadataPrivacyAccounting(t *testing.T) {
	for _, name := range sampleFilenames {
		res := Classify(Input{Filename: name, MimeType: mimeFor(name)})
		assert.GreaterOrEqual(t, res.Metadata.PrivacyEpsilon, 0.08, "filename %q", name)
		assert.Less(t, res.Metadata.PrivacyEpsilon, 0.12, "filename %q", name)
		assert.Equal(t, 0.00001, res.Metadata.PrivacyDelta, "filename %q", name)
		assert.NotEmpty(t, res.Metadata.TrainingDatasets, "filename %q", name)
	}
}

func TestFilenameSeed_UTF16CodeUnits(t *testing.T) {
	// "ab" = 97 + 98.
	assert.Equal(t, 195, filenameSeed("ab"))
	// Non-ASCII filenames sum UTF-16 code units, not bytes.
	assert.Equal(t, 195+1044, filenameSeed("ab"+string(rune(0x0414))))
}
