// Package directory provides the user and group service layer.
//
// The Service validates names, delegates to the management tool, audits
// every mutating attempt (success or failure, with captured output) and keeps
// the read cache coherent. CLI commands call the service rather than the
// tool directly.
package directory

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/auditlog"
	"nathanbeddoewebdev/dirctl/internal/domain"
	"nathanbeddoewebdev/dirctl/internal/logging"
	"nathanbeddoewebdev/dirctl/internal/samba"
	"nathanbeddoewebdev/dirctl/internal/swrcache"
	"nathanbeddoewebdev/dirctl/internal/util"
)

// Tool is the subset of *samba.Tool the service drives.
type Tool interface {
	DryRun() bool
	List(ctx context.Context, et domain.EntityType) ([]string, error)
	Show(ctx context.Context, et domain.EntityType, name string) (*domain.AttributeRecord, error)

	UserCreate(ctx context.Context, name, password string) (string, error)
	UserUpdate(ctx context.Context, name string, attrs samba.UserAttrs) (string, error)
	UserSetPassword(ctx context.Context, name, password string, mustChange bool) (string, error)
	UserEnable(ctx context.Context, name string) (string, error)
	UserDisable(ctx context.Context, name string) (string, error)
	VerifyPassword(ctx context.Context, name, password string) error

	GroupAdd(ctx context.Context, name, description string) (string, error)
	GroupSetDescription(ctx context.Context, name, description string) (string, error)
	GroupAddMembers(ctx context.Context, group string, members ...string) (string, error)
	GroupRemoveMembers(ctx context.Context, group string, members ...string) (string, error)
	GroupMove(ctx context.Context, group, targetDN string) (string, error)
}

// Service is the directory business logic layer.
type Service struct {
	tool       Tool
	audit      auditlog.Sink
	cache      *swrcache.Cache
	disabledOU string
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables stale-while-revalidate caching for list and show.
func WithCache(cache *swrcache.Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithAudit records every mutating attempt to sink.
func WithAudit(sink auditlog.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.audit = sink
		}
	}
}

// WithDisabledGroupsOU sets the OU groups are moved to by DisableGroup when
// no explicit target is given.
func WithDisabledGroupsOU(dn string) Option {
	return func(s *Service) {
		s.disabledOU = strings.TrimSpace(dn)
	}
}

// New returns a Service backed by tool.
func New(tool Tool, opts ...Option) *Service {
	svc := &Service{tool: tool, audit: auditlog.Discard, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CreateUserInput describes a new account.
type CreateUserInput struct {
	Name               string
	Password           string
	Attrs              samba.UserAttrs
	MustChangePassword bool
}

// List returns the names of all entities of type et.
func (s *Service) List(ctx context.Context, et domain.EntityType) ([]string, error) {
	if s.cache == nil {
		return s.tool.List(ctx, et)
	}
	return swrcache.GetOrFetch(s.cache, ctx, listKey(et), func(ctx context.Context) ([]string, error) {
		return s.tool.List(ctx, et)
	})
}

// Show returns the attributes of one entity.
func (s *Service) Show(ctx context.Context, et domain.EntityType, name string) (*domain.AttributeRecord, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return nil, fmt.Errorf("invalid %s name: %w", et, err)
	}
	if s.cache == nil {
		return s.tool.Show(ctx, et, name)
	}
	return swrcache.GetOrFetch(s.cache, ctx, showKey(et, name), func(ctx context.Context) (*domain.AttributeRecord, error) {
		return s.tool.Show(ctx, et, name)
	})
}

// CreateUser creates the account, applies basic attributes when any are set
// and, if requested, forces a password change at next login.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	if err := util.ValidateEntityName(in.Name); err != nil {
		return "", fmt.Errorf("invalid user name: %w", err)
	}
	if in.Password == "" {
		return "", errors.New("password is required")
	}
	return s.do(ctx, "create_user", domain.EntityUser, in.Name, nil, []domain.EntityType{domain.EntityUser}, func(ctx context.Context) (string, error) {
		var outputs []string
		out, err := s.tool.UserCreate(ctx, in.Name, in.Password)
		if err != nil {
			return "", err
		}
		outputs = append(outputs, out)
		if !in.Attrs.Empty() {
			out, err := s.tool.UserUpdate(ctx, in.Name, in.Attrs)
			if err != nil {
				return "", err
			}
			outputs = append(outputs, out)
		}
		if in.MustChangePassword {
			out, err := s.tool.UserSetPassword(ctx, in.Name, in.Password, true)
			if err != nil {
				return "", err
			}
			outputs = append(outputs, out)
		}
		return joinOutputs(outputs), nil
	})
}

// UpdateUser sets basic attributes. Empty fields are left untouched.
func (s *Service) UpdateUser(ctx context.Context, name string, attrs samba.UserAttrs) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid user name: %w", err)
	}
	if attrs.Empty() {
		return "", errors.New("at least one attribute is required")
	}
	details := map[string]any{}
	for k, v := range map[string]string{
		"given_name":   attrs.GivenName,
		"surname":      attrs.Surname,
		"display_name": attrs.DisplayName,
		"mail":         attrs.Mail,
		"upn":          attrs.UPN,
	} {
		if v != "" {
			details[k] = v
		}
	}
	return s.do(ctx, "update_user", domain.EntityUser, name, details, []domain.EntityType{domain.EntityUser}, func(ctx context.Context) (string, error) {
		return s.tool.UserUpdate(ctx, name, attrs)
	})
}

// ResetPassword replaces a user's password.
func (s *Service) ResetPassword(ctx context.Context, name, password string, mustChange bool) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid user name: %w", err)
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	details := map[string]any{"must_change": mustChange}
	return s.do(ctx, "reset_password", domain.EntityUser, name, details, []domain.EntityType{domain.EntityUser}, func(ctx context.Context) (string, error) {
		return s.tool.UserSetPassword(ctx, name, password, mustChange)
	})
}

// EnableUser enables an account.
func (s *Service) EnableUser(ctx context.Context, name string) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid user name: %w", err)
	}
	return s.do(ctx, "enable_user", domain.EntityUser, name, nil, []domain.EntityType{domain.EntityUser}, func(ctx context.Context) (string, error) {
		return s.tool.UserEnable(ctx, name)
	})
}

// DisableUser disables an account.
func (s *Service) DisableUser(ctx context.Context, name string) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid user name: %w", err)
	}
	return s.do(ctx, "disable_user", domain.EntityUser, name, nil, []domain.EntityType{domain.EntityUser}, func(ctx context.Context) (string, error) {
		return s.tool.UserDisable(ctx, name)
	})
}

// AddUserToGroup adds user to group. The attempt is audited against the user.
func (s *Service) AddUserToGroup(ctx context.Context, user, group string) (string, error) {
	if err := validatePair(user, group); err != nil {
		return "", err
	}
	return s.do(ctx, "add_user_to_group", domain.EntityUser, user, map[string]any{"group": group}, bothTypes, func(ctx context.Context) (string, error) {
		return s.tool.GroupAddMembers(ctx, group, user)
	})
}

// RemoveUserFromGroup removes user from group.
func (s *Service) RemoveUserFromGroup(ctx context.Context, user, group string) (string, error) {
	if err := validatePair(user, group); err != nil {
		return "", err
	}
	return s.do(ctx, "remove_user_from_group", domain.EntityUser, user, map[string]any{"group": group}, bothTypes, func(ctx context.Context) (string, error) {
		return s.tool.GroupRemoveMembers(ctx, group, user)
	})
}

// CreateGroup creates a group with an optional description.
func (s *Service) CreateGroup(ctx context.Context, name, description string) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid group name: %w", err)
	}
	return s.do(ctx, "create_group", domain.EntityGroup, name, nil, []domain.EntityType{domain.EntityGroup}, func(ctx context.Context) (string, error) {
		return s.tool.GroupAdd(ctx, name, description)
	})
}

// SetGroupDescription replaces a group's description.
func (s *Service) SetGroupDescription(ctx context.Context, name, description string) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid group name: %w", err)
	}
	details := map[string]any{"description": description}
	return s.do(ctx, "update_group_description", domain.EntityGroup, name, details, []domain.EntityType{domain.EntityGroup}, func(ctx context.Context) (string, error) {
		return s.tool.GroupSetDescription(ctx, name, description)
	})
}

// AddGroupMember adds member to group. The attempt is audited against the
// group.
func (s *Service) AddGroupMember(ctx context.Context, group, member string) (string, error) {
	if err := validatePair(member, group); err != nil {
		return "", err
	}
	return s.do(ctx, "add_group_member", domain.EntityGroup, group, map[string]any{"member": member}, bothTypes, func(ctx context.Context) (string, error) {
		return s.tool.GroupAddMembers(ctx, group, member)
	})
}

// RemoveGroupMember removes member from group.
func (s *Service) RemoveGroupMember(ctx context.Context, group, member string) (string, error) {
	if err := validatePair(member, group); err != nil {
		return "", err
	}
	return s.do(ctx, "remove_group_member", domain.EntityGroup, group, map[string]any{"member": member}, bothTypes, func(ctx context.Context) (string, error) {
		return s.tool.GroupRemoveMembers(ctx, group, member)
	})
}

// DisableGroup moves a group into targetOU, or into the configured disabled
// groups OU when targetOU is empty.
func (s *Service) DisableGroup(ctx context.Context, name, targetOU string) (string, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return "", fmt.Errorf("invalid group name: %w", err)
	}
	target := strings.TrimSpace(targetOU)
	if target == "" {
		target = s.disabledOU
	}
	if target == "" {
		return "", errors.New("no target OU given and no disabled groups OU configured")
	}
	return s.do(ctx, "disable_group", domain.EntityGroup, name, map[string]any{"target_ou": target}, []domain.EntityType{domain.EntityGroup}, func(ctx context.Context) (string, error) {
		return s.tool.GroupMove(ctx, name, target)
	})
}

// VerifyPassword reports whether password is valid for name. A rejected
// credential is (false, nil); infrastructure failures are returned.
func (s *Service) VerifyPassword(ctx context.Context, name, password string) (bool, error) {
	if err := util.ValidateEntityName(name); err != nil {
		return false, fmt.Errorf("invalid user name: %w", err)
	}
	err := s.tool.VerifyPassword(ctx, name, password)
	switch {
	case err == nil:
		s.record(ctx, "verify_password", domain.EntityUser, name, 0, auditlog.OutcomeSuccess, auditlog.Details(map[string]any{"valid": true}))
		return true, nil
	case domain.IsRejected(err):
		s.record(ctx, "verify_password", domain.EntityUser, name, 0, auditlog.OutcomeSuccess, auditlog.Details(map[string]any{"valid": false}))
		return false, nil
	default:
		s.record(ctx, "verify_password", domain.EntityUser, name, 0, auditlog.OutcomeError, auditlog.ErrorDetails(err, nil))
		return false, err
	}
}

var bothTypes = []domain.EntityType{domain.EntityUser, domain.EntityGroup}

// do runs fn, audits the attempt and drops cached reads for the touched
// entity types. Errors from fn are returned unchanged.
func (s *Service) do(ctx context.Context, action string, et domain.EntityType, id string, details map[string]any, touched []domain.EntityType, fn func(context.Context) (string, error)) (string, error) {
	start := s.now()
	out, err := fn(ctx)
	elapsed := s.now().Sub(start)

	fields := maps.Clone(details)
	if fields == nil {
		fields = map[string]any{}
	}
	dryRun := s.tool.DryRun()
	if dryRun {
		fields["dry_run"] = true
	}

	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("action", action).Str("object", id).Msg("directory operation failed")
		s.record(ctx, action, et, id, elapsed, auditlog.OutcomeError, auditlog.ErrorDetails(err, fields))
		return "", err
	}
	s.record(ctx, action, et, id, elapsed, auditlog.OutcomeSuccess, auditlog.Details(fields))

	if !dryRun {
		s.invalidate(ctx, touched)
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, action string, et domain.EntityType, id string, d time.Duration, outcome, detail string) {
	entry := &auditlog.AuditEntry{
		Actor:      auditlog.ActorFromContext(ctx),
		Action:     action,
		ObjectType: string(et),
		ObjectID:   id,
		Outcome:    outcome,
		Detail:     detail,
		DurationMs: d.Milliseconds(),
	}
	if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("action", action).Msg("writing audit entry")
	}
}

func (s *Service) invalidate(ctx context.Context, types []domain.EntityType) {
	for _, et := range types {
		if err := s.cache.InvalidatePrefix(string(et) + "_"); err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("entity", string(et)).Msg("cache invalidation failed")
		}
	}
}

func validatePair(member, group string) error {
	if err := util.ValidateEntityName(member); err != nil {
		return fmt.Errorf("invalid member name: %w", err)
	}
	if err := util.ValidateEntityName(group); err != nil {
		return fmt.Errorf("invalid group name: %w", err)
	}
	return nil
}

func joinOutputs(outputs []string) string {
	var kept []string
	for _, o := range outputs {
		if o = strings.TrimSpace(o); o != "" {
			kept = append(kept, o)
		}
	}
	return strings.Join(kept, "\n")
}

func listKey(et domain.EntityType) string {
	return string(et) + "_list"
}

// showKey hex-encodes the lowercased name so distinct names never share a
// cache file. Directory names compare case-insensitively.
func showKey(et domain.EntityType, name string) string {
	return string(et) + "_show_" + hex.EncodeToString([]byte(strings.ToLower(name)))
}
