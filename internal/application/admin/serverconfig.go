package admin

import (
	"context"

	"sep2utility/internal/domain/notification"
	"sep2utility/internal/domain/serverconfig"
	"sep2utility/internal/infrastructure/notify"
)

// GetServerConfigUseCase handles GET /admin/config.
type GetServerConfigUseCase struct{ Deps }

func NewGetServerConfigUseCase(d Deps) *GetServerConfigUseCase { return &GetServerConfigUseCase{Deps: d} }

func (uc *GetServerConfigUseCase) Execute(ctx context.Context) (serverconfig.RuntimeServerConfig, error) {
	return serverconfig.GetCurrent(ctx, uc.DB)
}

// UpdateServerConfigUseCase handles PUT /admin/config: the ConfigManager.update_current_config
// equivalent from spec.md §5 - commits the new row, then, if the edevl poll-rate changed,
// fires a best-effort notification sweep over Site subscribers so they learn of the new rate
// on their next poll. The fsal half of that rule (a function-set-assignment poll-rate change)
// has no corresponding resource family in this port - FunctionSetAssignment is not modelled as
// a storage aggregate here, so only the SITE leg is wired (see DESIGN.md).
type UpdateServerConfigUseCase struct{ Deps }

func NewUpdateServerConfigUseCase(d Deps) *UpdateServerConfigUseCase {
	return &UpdateServerConfigUseCase{Deps: d}
}

func (uc *UpdateServerConfigUseCase) Execute(ctx context.Context, next serverconfig.RuntimeServerConfig) (serverconfig.RuntimeServerConfig, error) {
	prior, err := serverconfig.UpdateCurrent(ctx, uc.DB, next, now())
	if err != nil {
		return serverconfig.RuntimeServerConfig{}, err
	}

	if prior.EDevListPollRateSeconds != next.EDevListPollRateSeconds {
		if _, notifyErr := notification.CheckSiteChanges(ctx, uc.DB, now(), notification.EntityChanged, notify.BasicXMLSerializer, now()); notifyErr != nil {
			uc.Logger.Warnw("config update: failed to notify site subscribers of edevl poll-rate change", "error", notifyErr)
		}
	}

	return next, nil
}
