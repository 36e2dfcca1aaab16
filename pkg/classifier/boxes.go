package classifier

import "strings"

// Synthetic box geometry. Boxes are placed inside a nominal 400x300 canvas
// with person-sized dimensions; nothing here inspects real pixels.
const (
	canvasWidth  = 400.0
	canvasHeight = 300.0

	minBoxWidth  = 120.0
	maxBoxWidth  = 200.0
	minBoxHeight = 180.0
	maxBoxHeight = 280.0
)

// offset derives a stable fraction in [0,1) from the seed. Distinct salts
// decorrelate the coordinates without extra state.
func offset(seed, salt int) float64 {
	return float64((seed*salt)%100) / 100.0
}

// generateBoxes produces the box set for a result: exactly one "person" box
// for non-anomalies, one or two boxes for anomalies (the first labeled with
// the category, an optional second bystander "person" box).
func generateBoxes(seed int, category AnomalyType, confidence float64, severity Severity, isAnomaly bool) []BoundingBox {
	if !isAnomaly {
		return []BoundingBox{personBox(seed, 0.85+offset(seed, 3)*0.1)}
	}

	boxes := []BoundingBox{anomalyBox(seed, category, confidence, severity)}
	if seed%2 == 1 {
		boxes = append(boxes, personBox(seed+1, 0.6+offset(seed, 5)*0.3))
	}
	return boxes
}

func anomalyBox(seed int, category AnomalyType, confidence float64, severity Severity) BoundingBox {
	return BoundingBox{
		ClassName:  strings.ReplaceAll(string(category), "_", " "),
		Confidence: confidence,
		Box:        boxGeometry(seed, 7, 11, 13, 17),
		IsAnomaly:  true,
		Priority:   string(severity),
	}
}

func personBox(seed int, confidence float64) BoundingBox {
	return BoundingBox{
		ClassName:  "person",
		Confidence: confidence,
		Box:        boxGeometry(seed, 19, 23, 29, 31),
		IsAnomaly:  false,
		Priority:   "normal",
	}
}

func boxGeometry(seed, saltX, saltY, saltW, saltH int) [4]float64 {
	w := minBoxWidth + offset(seed, saltW)*(maxBoxWidth-minBoxWidth)
	h := minBoxHeight + offset(seed, saltH)*(maxBoxHeight-minBoxHeight)
	x1 := offset(seed, saltX) * (canvasWidth - w/2)
	y1 := offset(seed, saltY) * (canvasHeight - h/2)
	return [4]float64{x1, y1, x1 + w, y1 + h}
}
