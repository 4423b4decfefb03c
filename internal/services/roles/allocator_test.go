package roles

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lcrawf/moonhollow/internal/dependencies/mocks"
	"github.com/lcrawf/moonhollow/internal/model"
)

type AllocatorSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	allocator *Allocator
}

func TestAllocatorSuite(t *testing.T) {
	suite.Run(t, new(AllocatorSuite))
}

func (s *AllocatorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.allocator = New(s.random)
}

func (s *AllocatorSuite) countRoles(pool []model.Role) map[model.Role]int {
	counts := make(map[model.Role]int)
	for _, r := range pool {
		counts[r]++
	}
	return counts
}

func (s *AllocatorSuite) TestAllocatePoolBasic() {
	cfg := model.RoomConfig{MaxPlayers: 8, MafiaCount: 2}
	pool := s.allocator.AllocatePool(8, cfg)

	s.Len(pool, 8)
	counts := s.countRoles(pool)
	s.Equal(2, counts[model.RoleMafia])
	s.Equal(1, counts[model.RoleDetective])
	s.Equal(1, counts[model.RoleDoctor])
	s.Equal(4, counts[model.RoleCitizen])
}

func (s *AllocatorSuite) TestAllocatePoolSmallTableSkipsSpecialists() {
	cfg := model.RoomConfig{MaxPlayers: 4, MafiaCount: 1}
	pool := s.allocator.AllocatePool(4, cfg)

	s.Len(pool, 4)
	counts := s.countRoles(pool)
	s.Equal(1, counts[model.RoleMafia])
	s.Equal(3, counts[model.RoleCitizen])
	s.Zero(counts[model.RoleDetective])
	s.Zero(counts[model.RoleDoctor])
}

func (s *AllocatorSuite) TestBomberReplacesMafiaToken() {
	cfg := model.RoomConfig{MaxPlayers: 12, MafiaCount: 3, EnableBomber: true}
	pool := s.allocator.AllocatePool(12, cfg)

	counts := s.countRoles(pool)
	s.Equal(1, counts[model.RoleBomber])
	s.Equal(2, counts[model.RoleMafia])
	// Mafia-faction headcount is unchanged by the bomber
	faction := 0
	for _, r := range pool {
		if r.IsMafiaFaction() {
			faction++
		}
	}
	s.Equal(3, faction)
}

func (s *AllocatorSuite) TestBomberRequiresMinimumMafia() {
	cfg := model.RoomConfig{MaxPlayers: 8, MafiaCount: 2, EnableBomber: true}
	pool := s.allocator.AllocatePool(8, cfg)

	counts := s.countRoles(pool)
	s.Zero(counts[model.RoleBomber])
	s.Equal(2, counts[model.RoleMafia])
}

func (s *AllocatorSuite) TestSpyReplacesLastMafiaToken() {
	cfg := model.RoomConfig{MaxPlayers: 12, MafiaCount: 3, EnableBomber: true, EnableSpy: true}
	pool := s.allocator.AllocatePool(12, cfg)

	counts := s.countRoles(pool)
	s.Equal(1, counts[model.RoleBomber])
	s.Equal(1, counts[model.RoleSpy])
	s.Equal(1, counts[model.RoleMafia])
}

func (s *AllocatorSuite) TestPoliceOnlyOnLargeTables() {
	cfg := model.RoomConfig{MaxPlayers: 12, MafiaCount: 3, EnablePolice: true}

	pool := s.allocator.AllocatePool(12, cfg)
	counts := s.countRoles(pool)
	s.Equal(1, counts[model.RoleOfficer])
	s.Equal(1, counts[model.RoleSergeant])
	s.Equal(1, counts[model.RoleChief])

	// Fewer actual seats than the police minimum: trio is withheld
	pool = s.allocator.AllocatePool(9, cfg)
	counts = s.countRoles(pool)
	s.Zero(counts[model.RoleOfficer])
	s.Len(pool, 9)
}

func (s *AllocatorSuite) TestAllocatePoolShuffles() {
	s.random.NoShuffle = false
	cfg := model.RoomConfig{MaxPlayers: 6, MafiaCount: 2}
	pool := s.allocator.AllocatePool(6, cfg)

	// Mock shuffle reverses, so the mafia tokens end up at the tail
	s.Len(pool, 6)
	s.Equal(model.RoleMafia, pool[5])
	s.Equal(model.RoleMafia, pool[4])
}

func (s *AllocatorSuite) TestAssignSeatsHumansOnly() {
	seats := []*model.Seat{
		{PlayerID: "p1", Alive: true},
		{PlayerID: "p2", Alive: true},
		{PlayerID: "p3", Alive: true},
		{PlayerID: "p4", Alive: true},
	}
	pool := []model.Role{model.RoleMafia, model.RoleCitizen, model.RoleCitizen, model.RoleCitizen}

	s.allocator.AssignSeats(pool, seats)

	s.Equal(model.RoleMafia, seats[0].Role)
	s.Equal(model.RoleCitizen, seats[1].Role)
	s.Equal(model.RoleCitizen, seats[2].Role)
	s.Equal(model.RoleCitizen, seats[3].Role)
}

func (s *AllocatorSuite) TestAssignSeatsBotsGetCitizen() {
	seats := []*model.Seat{
		{PlayerID: "p1", Alive: true},
		{PlayerID: "bot-1", IsBot: true, Alive: true},
		{PlayerID: "p2", Alive: true},
		{PlayerID: "bot-2", IsBot: true, Alive: true},
		{PlayerID: "p3", Alive: true},
	}
	pool := []model.Role{
		model.RoleMafia, model.RoleDetective, model.RoleDoctor,
		model.RoleCitizen, model.RoleCitizen,
	}

	s.allocator.AssignSeats(pool, seats)

	s.Equal(model.RoleCitizen, seats[1].Role)
	s.Equal(model.RoleCitizen, seats[3].Role)
	// Humans receive the non-filler tokens in pool order
	s.Equal(model.RoleMafia, seats[0].Role)
	s.Equal(model.RoleDetective, seats[2].Role)
	s.Equal(model.RoleDoctor, seats[4].Role)
}

func (s *AllocatorSuite) TestAssignSeatsMoreBotsThanCitizenTokens() {
	seats := []*model.Seat{
		{PlayerID: "p1", Alive: true},
		{PlayerID: "bot-1", IsBot: true, Alive: true},
		{PlayerID: "bot-2", IsBot: true, Alive: true},
		{PlayerID: "p2", Alive: true},
	}
	// Only one citizen token for two bots
	pool := []model.Role{model.RoleMafia, model.RoleDetective, model.RoleDoctor, model.RoleCitizen}

	s.allocator.AssignSeats(pool, seats)

	s.Equal(model.RoleCitizen, seats[1].Role)
	s.Equal(model.RoleCitizen, seats[2].Role)
	s.Equal(model.RoleMafia, seats[0].Role)
	s.Equal(model.RoleDetective, seats[3].Role)
}
