package repository

// Repositories bundles one implementation of every store so a backend can be
// swapped as a unit.
type Repositories struct {
	Users         UserRepository
	Verifications VerificationRepository
	Listings      ListingRepository
	Inquiries     InquiryRepository
	Transactions  TransactionRepository
	Chat          ChatRepository
	Notifications NotificationRepository
	Portfolios    PortfolioRepository
	Posts         PostRepository
	Follows       FollowRepository
	Files         FileMetadataRepository
}
