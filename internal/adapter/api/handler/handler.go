package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	verificationHandler *VerificationHandler
	adminHandler        *AdminHandler
	listingHandler      *ListingHandler
	inquiryHandler      *InquiryHandler
	transactionHandler  *TransactionHandler
	chatHandler         *ChatHandler
	notificationHandler *NotificationHandler
	portfolioHandler    *PortfolioHandler
	feedHandler         *FeedHandler
	dashboardHandler    *DashboardHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	listingUseCase *usecase.ListingUseCase,
	inquiryUseCase *usecase.InquiryUseCase,
	transactionUseCase *usecase.TransactionUseCase,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	portfolioUseCase *usecase.PortfolioUseCase,
	feedUseCase *usecase.FeedUseCase,
	dashboardUseCase *usecase.DashboardUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase, authUseCase, feedUseCase)
	verificationHandler = NewVerificationHandler(verificationUseCase)
	adminHandler = NewAdminHandler(verificationUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	inquiryHandler = NewInquiryHandler(inquiryUseCase)
	transactionHandler = NewTransactionHandler(transactionUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	portfolioHandler = NewPortfolioHandler(portfolioUseCase)
	feedHandler = NewFeedHandler(feedUseCase)
	dashboardHandler = NewDashboardHandler(dashboardUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetVerificationHandler() *VerificationHandler {
	return verificationHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetInquiryHandler() *InquiryHandler {
	return inquiryHandler
}

func GetTransactionHandler() *TransactionHandler {
	return transactionHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetPortfolioHandler() *PortfolioHandler {
	return portfolioHandler
}

func GetFeedHandler() *FeedHandler {
	return feedHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

// callerID returns the user id set by the auth middleware.
func callerID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
