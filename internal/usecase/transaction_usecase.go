package usecase

import (
	"context"
	"time"

	"greia/internal/domain/entity"
	"greia/internal/domain/policy"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
	"greia/pkg/logger"
)

type TransactionUseCase struct {
	transactionRepo repository.TransactionRepository
	now             Clock
}

func NewTransactionUseCase(transactionRepo repository.TransactionRepository, now Clock) *TransactionUseCase {
	if now == nil {
		now = time.Now
	}
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		now:             now,
	}
}

func (uc *TransactionUseCase) ListTransactions(ctx context.Context, callerID string, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	txns, err := uc.transactionRepo.ListForUser(ctx, callerID, limit)
	if err != nil {
		logger.Error("ListTransactions Error: caller=%s: %v", callerID, err)
		return nil, err
	}
	return txns, nil
}

func (uc *TransactionUseCase) GetTransaction(ctx context.Context, callerID, id string) (*entity.Transaction, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.IsParty(callerID) {
		return nil, errors.Forbidden("You are not a party to this transaction", nil)
	}
	return txn, nil
}

// UpdateTransactionStatus applies a status change checked against the status
// read inside the same atomic unit.
func (uc *TransactionUseCase) UpdateTransactionStatus(ctx context.Context, callerID, id string, status entity.TransactionStatus) (*entity.Transaction, error) {
	if !status.Valid() {
		return nil, errors.Validation("Invalid transaction status")
	}

	txn, err := uc.transactionRepo.Update(ctx, id, func(txn *entity.Transaction) error {
		if !txn.IsParty(callerID) {
			return errors.Forbidden("You are not a party to this transaction", nil)
		}
		actor := policy.ActorBuyer
		if txn.SellerID == callerID {
			actor = policy.ActorSeller
		}
		if !policy.CanTransitionTransaction(txn.Status, status, actor) {
			return errors.Conflict("Cannot move transaction from " + string(txn.Status) + " to " + string(status))
		}
		txn.Status = status
		txn.UpdatedAt = uc.now()
		return nil
	})
	if err != nil {
		if errors.StatusOf(err) >= 500 {
			logger.Error("UpdateTransactionStatus Error: id=%s: %v", id, err)
		}
		return nil, err
	}
	return txn, nil
}
