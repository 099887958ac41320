package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ewallet-settlement/internal/domain/account"
)

type accountService struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &accountService{accountRepo: accountRepo}
}

func (s *accountService) CreateAccount(ctx context.Context, ownerName string, initialBalance int64) (*account.Account, error) {
	acc, err := account.NewAccount(ownerName, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *accountService) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}
