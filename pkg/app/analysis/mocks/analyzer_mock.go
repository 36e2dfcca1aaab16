package mocks

import (
	"context"

	"github.com/VigilNet/FedWatch/pkg/classifier"
	"github.com/VigilNet/FedWatch/pkg/domain/detection"
	"github.com/stretchr/testify/mock"
)

type Analyzer struct {
	mock.Mock
}

func (m *Analyzer) Analyze(ctx context.Context, filename, mimeType string, content []byte) (*detection.Detection, classifier.Result, error) {
	args := m.Called(ctx, filename, mimeType, content)
	var entity *detection.Detection
	if args.Get(0) != nil {
		entity = args.Get(0).(*detection.Detection)
	}
	return entity, args.Get(1).(classifier.Result), args.Error(2)
}
