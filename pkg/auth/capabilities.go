// Package auth exposes the capability surface the reservation engine
// consumes from the identity collaborator. The engine only ever sees
// boolean capability results, never role strings.
package auth

import "net/http"

const TeamHeader = "X-Team-ID"

type Capabilities interface {
	// CanBookReservations reports whether the acting team may create,
	// edit or cancel reservations attributed to teamID.
	CanBookReservations(teamID string) bool
	// CanManageInventory reports whether the acting team may create or
	// modify resources in the catalog.
	CanManageInventory(teamID string) bool
	// CanEditBudget reports whether the acting team may adjust budget
	// figures attributed to teamID.
	CanEditBudget(teamID string) bool
}

// ActingTeam extracts the acting team id from the request. Empty means
// the request carries no identity and fails capability checks.
func ActingTeam(r *http.Request) string {
	return r.Header.Get(TeamHeader)
}

// StaticProvider is the default Capabilities implementation: any team
// acts for itself, and only configured manager teams touch inventory.
// The interface is the seam for a real identity provider.
type StaticProvider struct {
	managers map[string]struct{}
}

func NewStaticProvider(managerTeams []string) *StaticProvider {
	managers := make(map[string]struct{}, len(managerTeams))
	for _, team := range managerTeams {
		managers[team] = struct{}{}
	}
	return &StaticProvider{managers: managers}
}

func (p *StaticProvider) CanBookReservations(teamID string) bool {
	return teamID != ""
}

func (p *StaticProvider) CanManageInventory(teamID string) bool {
	_, ok := p.managers[teamID]
	return ok
}

func (p *StaticProvider) CanEditBudget(teamID string) bool {
	return teamID != ""
}
