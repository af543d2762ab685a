package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
	"github.com/cakeorder/bakery-storefront/internal/core/validation"
)

// AccountService applies the account field and uniqueness rules before
// anything reaches the account store.
type AccountService struct {
	tx        ports.TransactionManager
	accounts  ports.AccountRepository
	validator *validation.Validator
	hasher    ports.PasswordHasher
	log       zerolog.Logger
}

var _ ports.AccountService = (*AccountService)(nil)

func NewAccountService(
	tx ports.TransactionManager,
	accounts ports.AccountRepository,
	validator *validation.Validator,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		tx:        tx,
		accounts:  accounts,
		validator: validator,
		hasher:    hasher,
		log:       log,
	}
}

// SignUp creates an enabled account. An email that is already registered is
// reported before any format problem.
func (s *AccountService) SignUp(ctx context.Context, draft domain.AccountDraft) (*domain.Account, error) {
	email := domain.NormalizeEmail(draft.Email)
	phone := strings.TrimSpace(draft.Phone)

	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := s.validateContact(email, phone); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	role := draft.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("sign up: %w", &domain.ValidationError{Reason: domain.ReasonRole, Value: string(role)})
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return nil, fmt.Errorf("sign up: hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName:    strings.TrimSpace(draft.FirstName),
		LastName:     strings.TrimSpace(draft.LastName),
		Address:      strings.TrimSpace(draft.Address),
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, r ports.TxRepos) error {
		if err := r.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return r.Accounts().EnableAccount(ctx, account.Email)
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	account.Enabled = true

	s.log.Info().Int64("account_id", account.ID).Str("role", string(account.Role)).Msg("account created")
	return account, nil
}

// UpdateAccount replaces the profile fields of account id. Role and password
// have their own operations and are left untouched. As on signup, a taken
// email is reported before any format problem.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, draft domain.AccountDraft) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	email := domain.NormalizeEmail(draft.Email)
	phone := strings.TrimSpace(draft.Phone)
	if err := s.ensureEmailFree(ctx, email, id); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if err := s.validateContact(email, phone); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	account.FirstName = strings.TrimSpace(draft.FirstName)
	account.LastName = strings.TrimSpace(draft.LastName)
	account.Address = strings.TrimSpace(draft.Address)
	account.Phone = phone
	account.Email = email
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, id int64, newPassword string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("change password: hash password: %w", err)
	}
	account.PasswordHash = hash
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	s.log.Info().Int64("account_id", id).Msg("password changed")
	return account, nil
}

func (s *AccountService) SetRole(ctx context.Context, id int64, role domain.Role) (*domain.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("set role: %w", &domain.ValidationError{Reason: domain.ReasonRole, Value: string(role)})
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	if account.Role == role {
		return account, nil
	}

	account.Role = role
	account.UpdatedAt = time.Now().UTC()
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.log.Info().Int64("account_id", id).Str("role", string(role)).Msg("role changed")
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// DeleteAccount removes the account together with its cart. Orders are kept.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var deleted *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.TxRepos) error {
		account, err := r.Accounts().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Carts().ClearAccount(ctx, id); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if err := r.Accounts().Delete(ctx, id); err != nil {
			return err
		}
		deleted = account
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete account: %w", err)
	}

	s.log.Info().Int64("account_id", id).Msg("account deleted")
	return deleted, nil
}

func (s *AccountService) validateContact(email, phone string) error {
	if !s.validator.ValidateEmail(email) {
		return &domain.ValidationError{Reason: domain.ReasonEmailFormat, Value: email}
	}
	if !s.validator.ValidatePhone(phone) {
		return &domain.ValidationError{Reason: domain.ReasonPhoneFormat, Value: phone}
	}
	return nil
}

// ensureEmailFree fails when email belongs to an account other than selfID.
// selfID zero means no account is being updated.
func (s *AccountService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}
	if selfID != 0 && existing.ID == selfID {
		return nil
	}
	return &domain.ConflictError{Reason: domain.ReasonEmailAlreadyTaken, Value: email}
}
