package model

// Role is a role token held by a player once a game starts
type Role string

const (
	RoleMafia     Role = "mafia"     // Ordinary mafia-faction role with the shared night kill
	RoleBomber    Role = "bomber"    // Mafia-faction; takes up to two players along when voted out
	RoleSpy       Role = "spy"       // Mafia-faction support role
	RoleDetective Role = "detective" // Investigates one player per night
	RoleDoctor    Role = "doctor"    // Protects one player per night
	RoleCitizen   Role = "citizen"   // Ability-less filler role, pre-assigned to bots
	RoleOfficer   Role = "officer"   // Police role, faction-neutral for win purposes
	RoleSergeant  Role = "sergeant"  // Police role, faction-neutral for win purposes
	RoleChief     Role = "chief"     // Police role, faction-neutral for win purposes
)

// Faction is a win-condition alignment
type Faction string

const (
	FactionMafia   Faction = "mafia"
	FactionTown    Faction = "town"
	FactionNeutral Faction = "neutral"
)

// Faction returns the role's alignment for win evaluation.
// The police roles count toward neither side.
func (r Role) Faction() Faction {
	switch r {
	case RoleMafia, RoleBomber, RoleSpy:
		return FactionMafia
	case RoleDetective, RoleDoctor, RoleCitizen:
		return FactionTown
	case RoleOfficer, RoleSergeant, RoleChief:
		return FactionNeutral
	default:
		return FactionNeutral
	}
}

// IsMafiaFaction reports whether the role counts as mafia for win,
// chat and kill-targeting purposes. Note this includes the bomber and
// the spy even though investigation reports them as innocent.
func (r Role) IsMafiaFaction() bool {
	return r.Faction() == FactionMafia
}

// HasNightAction reports whether the role must act at night.
// Mafia-faction roles share the single team kill; the detective and
// doctor each act individually.
func (r Role) HasNightAction() bool {
	switch r {
	case RoleMafia, RoleBomber, RoleSpy, RoleDetective, RoleDoctor:
		return true
	default:
		return false
	}
}

// PoliceRoles returns the three police role tokens appended for large games
func PoliceRoles() []Role {
	return []Role{RoleOfficer, RoleSergeant, RoleChief}
}

// RoleDisplayName returns a human-readable label for a role
func RoleDisplayName(r Role) string {
	switch r {
	case RoleMafia:
		return "Mafia"
	case RoleBomber:
		return "Bomber"
	case RoleSpy:
		return "Spy"
	case RoleDetective:
		return "Detective"
	case RoleDoctor:
		return "Doctor"
	case RoleCitizen:
		return "Citizen"
	case RoleOfficer:
		return "Officer"
	case RoleSergeant:
		return "Sergeant"
	case RoleChief:
		return "Chief"
	default:
		return string(r)
	}
}
