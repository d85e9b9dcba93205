// Package workflow centralizes the role-gated transition rules of the
// request/liquidation lifecycle. Every screen consults this single table;
// there are no per-screen role checks. The server remains the authoritative
// enforcer; this guard only prevents doomed calls from leaving the client.
package workflow

import (
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/models"
)

// Action is a user-initiated lifecycle command.
type Action string

const (
	ActionEnviar       Action = "enviar"
	ActionAtender      Action = "atender"
	ActionRechazar     Action = "rechazar"
	ActionPresentarDoc Action = "presentar_documentacion"
	ActionAprobar      Action = "aprobar"
)

type transition struct {
	from   models.State
	roles  []models.Role
	action Action
	to     models.State
	// ownerOnly restricts the action to the request's creator.
	ownerOnly bool
	topic     eventbus.Topic
}

// table is the authoritative transition contract. Any (state, role, action)
// triple not listed here is forbidden.
var table = []transition{
	{
		from:      models.StatePendingSubmission,
		roles:     []models.Role{models.RoleColaborador},
		action:    ActionEnviar,
		to:        models.StatePendingAttention,
		ownerOnly: true,
		topic:     eventbus.TopicRequestSent,
	},
	{
		from:   models.StatePendingAttention,
		roles:  []models.Role{models.RoleJefeDeProyecto},
		action: ActionAtender,
		to:     models.StateAttendedPendingLiquidation,
		topic:  eventbus.TopicRequestAttended,
	},
	{
		from:   models.StatePendingAttention,
		roles:  []models.Role{models.RoleJefeDeProyecto},
		action: ActionRechazar,
		to:     models.StateRejected,
		topic:  eventbus.TopicRequestRejected,
	},
	{
		from:      models.StateAttendedPendingLiquidation,
		roles:     []models.Role{models.RoleColaborador},
		action:    ActionPresentarDoc,
		to:        models.StateLiquidationSubmitted,
		ownerOnly: true,
		topic:     eventbus.TopicLiquidationSubmitted,
	},
	{
		from:   models.StateLiquidationSubmitted,
		roles:  []models.Role{models.RoleJefeDeProyecto, models.RoleAdministrador},
		action: ActionAprobar,
		to:     models.StateLiquidationApproved,
		topic:  eventbus.TopicLiquidationApproved,
	},
	{
		from:   models.StateLiquidationSubmitted,
		roles:  []models.Role{models.RoleJefeDeProyecto, models.RoleAdministrador},
		action: ActionRechazar,
		to:     models.StateRejected,
		topic:  eventbus.TopicLiquidationRejected,
	},
}

func lookup(state models.State, role models.Role, action Action) (transition, bool) {
	for _, t := range table {
		if t.from != state || t.action != action {
			continue
		}
		for _, r := range t.roles {
			if r == role {
				return t, true
			}
		}
	}
	return transition{}, false
}

// CanTransition reports whether role may perform action on a request in
// state. Fail-closed: unknown triples return false, never an error.
func CanTransition(state models.State, role models.Role, action Action) bool {
	_, ok := lookup(state, role, action)
	return ok
}

// Target returns the state a legal (state, action) pair transitions to.
func Target(state models.State, action Action) (models.State, bool) {
	for _, t := range table {
		if t.from == state && t.action == action {
			return t.to, true
		}
	}
	return "", false
}

// CanAct applies the full guard for a concrete request and principal,
// including the owner-only restriction on Enviar and Presentar
// documentación.
func CanAct(req *models.Request, p *models.Principal, action Action) bool {
	if req == nil || p == nil {
		return false
	}
	t, ok := lookup(req.State, p.Role, action)
	if !ok {
		return false
	}
	if t.ownerOnly && req.Requester.ID != p.ID {
		return false
	}
	return true
}

// EventFor returns the topic published after a successful (state, action)
// transition.
func EventFor(state models.State, action Action) (eventbus.Topic, bool) {
	for _, t := range table {
		if t.from == state && t.action == action {
			return t.topic, true
		}
	}
	return "", false
}
