package entity

import "time"

type Portfolio struct {
	ID             string    `json:"id" firestore:"id"`
	UserID         string    `json:"user_id" firestore:"userId"`
	Title          string    `json:"title" firestore:"title"`
	Description    string    `json:"description,omitempty" firestore:"description,omitempty"`
	Specialties    []string  `json:"specialties" firestore:"specialties"`
	Certifications []string  `json:"certifications" firestore:"certifications"`
	Experience     int       `json:"experience" firestore:"experience"` // years
	Website        string    `json:"website,omitempty" firestore:"website,omitempty"`
	AvgRating      float64   `json:"avg_rating" firestore:"avgRating"`
	ReviewCount    int       `json:"review_count" firestore:"reviewCount"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updatedAt"`
}

type Project struct {
	ID          string     `json:"id" firestore:"id"`
	PortfolioID string     `json:"portfolio_id" firestore:"portfolioId"`
	Title       string     `json:"title" firestore:"title"`
	Description string     `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string     `json:"category" firestore:"category"`
	Images      []string   `json:"images" firestore:"images"`
	Location    string     `json:"location,omitempty" firestore:"location,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}

type Review struct {
	ID          string    `json:"id" firestore:"id"`
	PortfolioID string    `json:"portfolio_id" firestore:"portfolioId"`
	ReviewerID  string    `json:"reviewer_id" firestore:"reviewerId"`
	Rating      int       `json:"rating" firestore:"rating"`
	Comment     string    `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

func ReviewID(reviewerID, portfolioID string) string {
	return reviewerID + "_" + portfolioID
}

// PortfolioView bundles a portfolio with its projects and reviews.
type PortfolioView struct {
	*Portfolio
	User     *UserSummary `json:"user,omitempty"`
	Projects []*Project   `json:"projects"`
	Reviews  []*Review    `json:"reviews"`
}

// AverageRating returns the mean of ratings, or 0 for none.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}
