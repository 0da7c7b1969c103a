package audit

import (
	"context"

	"github.com/kg6zjl/derbylive/pkg/log"
)

// Audit actions.
const (
	ActionPublish    = "results.publish"
	ActionReset      = "results.reset"
	ActionConnect    = "viewer.connect"
	ActionDisconnect = "viewer.disconnect"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
)

// LogRace emits a structured audit entry for a race-scoped action.
func LogRace(ctx context.Context, action string, raceID int64, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Int64(log.FieldRaceID, raceID).
		Msg(msg)
}

// LogClient emits a structured audit entry for a connection-scoped action.
func LogClient(ctx context.Context, action string, clientID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldClientID, clientID).
		Msg(msg)
}
