package v1

import (
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

type V1 struct {
	seeds  usecase.ObservationUseCase
	logger logger.Interface
}
