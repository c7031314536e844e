// Package memory is an in-process implementation of the repository
// interfaces. All collections share one mutex, so each repository method is a
// single critical section with the same atomicity as its Firestore
// counterpart. It backs local development without Firebase credentials and
// the use case tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"greia/internal/domain/entity"
	"greia/internal/domain/repository"
)

type Store struct {
	mu sync.Mutex

	users         map[string]*entity.User
	verifications map[string]*entity.ProfessionalInfo
	listings      map[string]*entity.Listing
	inquiries     map[string]*entity.Inquiry
	transactions  map[string]*entity.Transaction
	rooms         map[string]*entity.ChatRoom
	memberships   map[string]*entity.UserChatRoom
	messages      map[string]map[string]*entity.ChatMessage // room id -> message id
	notifications map[string]*entity.Notification
	portfolios    map[string]*entity.Portfolio
	projects      map[string]*entity.Project
	reviews       map[string]*entity.Review
	posts         map[string]*entity.Post
	likes         map[string]time.Time
	views         map[string]time.Time
	follows       map[string]*entity.Follow
	files         map[string]*entity.FileMetadata
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*entity.User),
		verifications: make(map[string]*entity.ProfessionalInfo),
		listings:      make(map[string]*entity.Listing),
		inquiries:     make(map[string]*entity.Inquiry),
		transactions:  make(map[string]*entity.Transaction),
		rooms:         make(map[string]*entity.ChatRoom),
		memberships:   make(map[string]*entity.UserChatRoom),
		messages:      make(map[string]map[string]*entity.ChatMessage),
		notifications: make(map[string]*entity.Notification),
		portfolios:    make(map[string]*entity.Portfolio),
		projects:      make(map[string]*entity.Project),
		reviews:       make(map[string]*entity.Review),
		posts:         make(map[string]*entity.Post),
		likes:         make(map[string]time.Time),
		views:         make(map[string]time.Time),
		follows:       make(map[string]*entity.Follow),
		files:         make(map[string]*entity.FileMetadata),
	}
}

// Repositories bundles every repository view over one store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:         &userRepo{s},
		Verifications: &verificationRepo{s},
		Listings:      &listingRepo{s},
		Inquiries:     &inquiryRepo{s},
		Transactions:  &transactionRepo{s},
		Chat:          &chatRepo{s},
		Notifications: &notificationRepo{s},
		Portfolios:    &portfolioRepo{s},
		Posts:         &postRepo{s},
		Follows:       &followRepo{s},
		Files:         &fileRepo{s},
	}
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func newestFirst[T any](items []*T, createdAt func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
