package memory

import (
	"context"
	"time"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type inquiryRepo struct{ s *Store }

func (r *inquiryRepo) Create(ctx context.Context, inquiry *entity.Inquiry, txn *entity.Transaction) (*entity.Inquiry, *entity.Transaction, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.inquiries[inquiry.ID]; ok {
		var existingTxn *entity.Transaction
		if existing.TransactionID != "" {
			existingTxn = clone(r.s.transactions[existing.TransactionID])
		}
		return clone(existing), existingTxn, false, nil
	}

	r.s.inquiries[inquiry.ID] = clone(inquiry)
	if txn != nil {
		r.s.transactions[txn.ID] = clone(txn)
	}
	return clone(inquiry), clone(txn), true, nil
}

func (r *inquiryRepo) GetByID(ctx context.Context, id string) (*entity.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inq, ok := r.s.inquiries[id]
	if !ok {
		return nil, errors.NotFound("Inquiry", nil)
	}
	return clone(inq), nil
}

func (r *inquiryRepo) ListForUser(ctx context.Context, userID string, filter entity.InquiryFilter) ([]*entity.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Inquiry
	for _, inq := range r.s.inquiries {
		if inq.CreatorID != userID && inq.ReceiverID != userID {
			continue
		}
		if filter.ListingID != "" && inq.ListingID != filter.ListingID ||
			filter.Status != "" && inq.Status != filter.Status ||
			filter.Type != "" && inq.Type != filter.Type {
			continue
		}
		out = append(out, clone(inq))
	}
	newestFirst(out, func(i *entity.Inquiry) time.Time { return i.CreatedAt })
	return out, nil
}

func (r *inquiryRepo) Update(ctx context.Context, id string, fn func(*entity.Inquiry) error) (*entity.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.inquiries[id]
	if !ok {
		return nil, errors.NotFound("Inquiry", nil)
	}
	inq := clone(stored)
	if err := fn(inq); err != nil {
		return nil, err
	}
	r.s.inquiries[id] = inq
	return clone(inq), nil
}

func (r *inquiryRepo) Count(ctx context.Context, q repository.InquiryCount) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, inq := range r.s.inquiries {
		if q.CreatorID != "" && inq.CreatorID != q.CreatorID ||
			q.ReceiverID != "" && inq.ReceiverID != q.ReceiverID ||
			q.Status != "" && inq.Status != q.Status {
			continue
		}
		n++
	}
	return n, nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	txn, ok := r.s.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	return clone(txn), nil
}

func (r *transactionRepo) ListForUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Transaction
	for _, txn := range r.s.transactions {
		if txn.IsParty(userID) {
			out = append(out, clone(txn))
		}
	}
	newestFirst(out, func(t *entity.Transaction) time.Time { return t.CreatedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *transactionRepo) Update(ctx context.Context, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.transactions[id]
	if !ok {
		return nil, errors.NotFound("Transaction", nil)
	}
	txn := clone(stored)
	if err := fn(txn); err != nil {
		return nil, err
	}
	r.s.transactions[id] = txn
	return clone(txn), nil
}

func (r *transactionRepo) CountForUser(ctx context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, txn := range r.s.transactions {
		if txn.IsParty(userID) {
			n++
		}
	}
	return n, nil
}

func (r *transactionRepo) SumAmount(ctx context.Context, sellerID string, status entity.TransactionStatus) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var total float64
	for _, txn := range r.s.transactions {
		if txn.SellerID == sellerID && txn.Status == status {
			total += txn.Amount
		}
	}
	return total, nil
}
