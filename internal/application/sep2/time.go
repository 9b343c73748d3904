package sep2

import (
	"context"

	"sep2utility/internal/interfaces/dto"
)

// GetTimeUseCase handles GET /tm, the resource every client polls first to synchronise its
// clock; it requires no certificate scope beyond a valid client certificate.
type GetTimeUseCase struct{ Deps }

func NewGetTimeUseCase(d Deps) *GetTimeUseCase { return &GetTimeUseCase{Deps: d} }

func (uc *GetTimeUseCase) Execute(ctx context.Context) dto.TimeResource {
	return dto.MapTimeResourceToResponse(now(), uc.SiteLocation(""), uc.HrefBuilder().Time())
}
