package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Do(ctx, http.MethodPost, "/login/", LoginRequest{Username: username, Password: password}, false, &resp)
	return resp, err
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.Do(ctx, http.MethodPost, "/register/", req, false, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/logout/", nil, true, nil)
}

func (c *Client) Reviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := c.Do(ctx, http.MethodGet, "/reviews/", nil, false, &reviews)
	return reviews, err
}

type CreateReviewRequest struct {
	Service     int    `json:"service"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (models.Review, error) {
	var review models.Review
	err := c.Do(ctx, http.MethodPost, "/reviews/create/", req, true, &review)
	return review, err
}

func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := c.Do(ctx, http.MethodGet, "/services/", nil, false, &services)
	return services, err
}

func (c *Client) Ratings(ctx context.Context) ([]models.Rating, error) {
	var ratings []models.Rating
	err := c.Do(ctx, http.MethodGet, "/ratings/", nil, false, &ratings)
	return ratings, err
}

type CreateOrderRequest struct {
	Services  []int   `json:"services"`
	Address   string  `json:"address"`
	TotalCost float64 `json:"total_cost"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	var order models.Order
	err := c.Do(ctx, http.MethodPost, "/orders/create/", req, true, &order)
	return order, err
}

func (c *Client) ManagerOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.Do(ctx, http.MethodGet, "/manager/", nil, true, &orders)
	return orders, err
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) error {
	path := fmt.Sprintf("/orders/%d/", orderID)
	return c.Do(ctx, http.MethodPatch, path, updateOrderStatusRequest{Status: status}, true, nil)
}
