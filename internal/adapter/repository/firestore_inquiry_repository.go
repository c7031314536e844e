package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
	"greia/pkg/errors"
)

type firestoreInquiryRepository struct {
	client *firestore.Client
}

func NewFirestoreInquiryRepository(client *firestore.Client) repository.InquiryRepository {
	return &firestoreInquiryRepository{
		client: client,
	}
}

func eitherParty(a, b, userID string) firestore.OrFilter {
	return firestore.OrFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: a, Operator: "==", Value: userID},
			firestore.PropertyFilter{Path: b, Operator: "==", Value: userID},
		},
	}
}

func (r *firestoreInquiryRepository) Create(ctx context.Context, inquiry *entity.Inquiry, txn *entity.Transaction) (*entity.Inquiry, *entity.Transaction, bool, error) {
	inquiryRef := r.client.Collection(inquiriesCollection).Doc(inquiry.ID)

	storedInquiry, storedTxn, created := inquiry, txn, true
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		storedInquiry, storedTxn, created = inquiry, txn, true

		doc, err := tx.Get(inquiryRef)
		if err == nil {
			created = false
			if storedInquiry, err = decodeOne[entity.Inquiry](doc); err != nil {
				return err
			}
			storedTxn = nil
			if storedInquiry.TransactionID == "" {
				return nil
			}
			txnDoc, err := tx.Get(r.client.Collection(transactionsCollection).Doc(storedInquiry.TransactionID))
			if err != nil {
				return err
			}
			storedTxn, err = decodeOne[entity.Transaction](txnDoc)
			return err
		}
		if !notFound(err) {
			return err
		}

		if err := tx.Create(inquiryRef, inquiry); err != nil {
			return err
		}
		if txn != nil {
			return tx.Create(r.client.Collection(transactionsCollection).Doc(txn.ID), txn)
		}
		return nil
	})
	if err != nil {
		return nil, nil, false, translate(err, "Inquiry", "create inquiry")
	}
	return storedInquiry, storedTxn, created, nil
}

func (r *firestoreInquiryRepository) GetByID(ctx context.Context, id string) (*entity.Inquiry, error) {
	doc, err := r.client.Collection(inquiriesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Inquiry", "get inquiry")
	}
	inquiry, err := decodeOne[entity.Inquiry](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse inquiry", err)
	}
	return inquiry, nil
}

func (r *firestoreInquiryRepository) ListForUser(ctx context.Context, userID string, filter entity.InquiryFilter) ([]*entity.Inquiry, error) {
	conds := []firestore.EntityFilter{eitherParty("creatorId", "receiverId", userID)}
	if filter.ListingID != "" {
		conds = append(conds, firestore.PropertyFilter{Path: "listingId", Operator: "==", Value: filter.ListingID})
	}
	if filter.Status != "" {
		conds = append(conds, firestore.PropertyFilter{Path: "status", Operator: "==", Value: filter.Status})
	}
	if filter.Type != "" {
		conds = append(conds, firestore.PropertyFilter{Path: "type", Operator: "==", Value: filter.Type})
	}

	q := r.client.Collection(inquiriesCollection).
		WhereEntity(firestore.AndFilter{Filters: conds}).
		OrderBy("createdAt", firestore.Desc)
	inquiries, err := decodeAll[entity.Inquiry](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list inquiries", err)
	}
	return inquiries, nil
}

func (r *firestoreInquiryRepository) Update(ctx context.Context, id string, fn func(*entity.Inquiry) error) (*entity.Inquiry, error) {
	ref := r.client.Collection(inquiriesCollection).Doc(id)

	var inquiry *entity.Inquiry
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if inquiry, err = decodeOne[entity.Inquiry](doc); err != nil {
			return err
		}
		if err := fn(inquiry); err != nil {
			return err
		}
		return tx.Set(ref, inquiry)
	})
	if err != nil {
		return nil, translate(err, "Inquiry", "update inquiry")
	}
	return inquiry, nil
}

func (r *firestoreInquiryRepository) Count(ctx context.Context, c repository.InquiryCount) (int64, error) {
	q := r.client.Collection(inquiriesCollection).Query
	if c.CreatorID != "" {
		q = q.Where("creatorId", "==", c.CreatorID)
	}
	if c.ReceiverID != "" {
		q = q.Where("receiverId", "==", c.ReceiverID)
	}
	if c.Status != "" {
		q = q.Where("status", "==", c.Status)
	}
	n, err := countOf(ctx, q)
	if err != nil {
		return 0, errors.Internal("Failed to count inquiries", err)
	}
	return n, nil
}

type firestoreTransactionRepository struct {
	client *firestore.Client
}

func NewFirestoreTransactionRepository(client *firestore.Client) repository.TransactionRepository {
	return &firestoreTransactionRepository{
		client: client,
	}
}

func (r *firestoreTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	doc, err := r.client.Collection(transactionsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "Transaction", "get transaction")
	}
	txn, err := decodeOne[entity.Transaction](doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse transaction", err)
	}
	return txn, nil
}

func (r *firestoreTransactionRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*entity.Transaction, error) {
	q := r.client.Collection(transactionsCollection).
		WhereEntity(eitherParty("userId", "sellerId", userID)).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	txns, err := decodeAll[entity.Transaction](q.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list transactions", err)
	}
	return txns, nil
}

func (r *firestoreTransactionRepository) Update(ctx context.Context, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error) {
	ref := r.client.Collection(transactionsCollection).Doc(id)

	var txn *entity.Transaction
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if txn, err = decodeOne[entity.Transaction](doc); err != nil {
			return err
		}
		if err := fn(txn); err != nil {
			return err
		}
		return tx.Set(ref, txn)
	})
	if err != nil {
		return nil, translate(err, "Transaction", "update transaction")
	}
	return txn, nil
}

func (r *firestoreTransactionRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	n, err := countOf(ctx, r.client.Collection(transactionsCollection).WhereEntity(eitherParty("userId", "sellerId", userID)))
	if err != nil {
		return 0, errors.Internal("Failed to count transactions", err)
	}
	return n, nil
}

func (r *firestoreTransactionRepository) SumAmount(ctx context.Context, sellerID string, st entity.TransactionStatus) (float64, error) {
	q := r.client.Collection(transactionsCollection).
		Where("sellerId", "==", sellerID).
		Where("status", "==", st)
	total, err := sumOf(ctx, q, "amount")
	if err != nil {
		return 0, errors.Internal("Failed to sum transactions", err)
	}
	return total, nil
}
