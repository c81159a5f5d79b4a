package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aidar/claims-engine/internal/domain"
	"github.com/aidar/claims-engine/internal/repository"
)

const defaultMemberRole = "Claims Adjuster"

// TeamService is the roster lookup used at the assignment boundary
type TeamService struct {
	teamRepo repository.TeamRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
	}
}

// AddMember adds a member to the caller's roster
func (s *TeamService) AddMember(ctx context.Context, principal domain.Principal, member *domain.TeamMember) (*domain.TeamMember, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	member.Name = strings.TrimSpace(member.Name)
	member.Email = strings.TrimSpace(member.Email)
	if member.Name == "" || member.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(member.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", domain.ErrValidation, member.Email)
	}

	member.AdminEmail = principal.Identity
	if member.Role == "" {
		member.Role = defaultMemberRole
	}
	switch member.Status {
	case "":
		member.Status = domain.MemberActive
	case domain.MemberActive, domain.MemberInactive:
	default:
		return nil, fmt.Errorf("%w: unknown member status %q", domain.ErrValidation, member.Status)
	}

	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// GetTeam returns the caller's roster
func (s *TeamService) GetTeam(ctx context.Context, principal domain.Principal) (*domain.Team, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	members, err := s.teamRepo.ListMembers(ctx, principal.Identity)
	if err != nil {
		return nil, err
	}
	return &domain.Team{AdminEmail: principal.Identity, Members: members}, nil
}
