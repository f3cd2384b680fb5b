package models

import (
	"strings"
	"time"
)

type Review struct {
	ID            int    `json:"id"`
	UserFirstName string `json:"user_first_name"`
	UserUsername  string `json:"user_username"`
	RatingValue   int    `json:"rating_value"`
	ServiceName   string `json:"service_name"`
	Description   string `json:"description"`
	Date          string `json:"date"`
}

func (r Review) Author() string {
	if r.UserFirstName != "" {
		return r.UserFirstName
	}
	if r.UserUsername != "" {
		return r.UserUsername
	}
	return "Пользователь"
}

func (r Review) Stars() string {
	n := r.RatingValue
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("⭐", n)
}

type Service struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Picture     string  `json:"picture"`
}

type Rating struct {
	ID    int `json:"id"`
	Value int `json:"value"`
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var statusDisplayNames = map[OrderStatus]string{
	OrderStatusPending:    "Ожидает обработки",
	OrderStatusConfirmed:  "Подтвержден",
	OrderStatusInProgress: "В работе",
	OrderStatusCompleted:  "Завершен",
	OrderStatusCancelled:  "Отменен",
}

// DisplayName falls back to the raw value: the status set is
// server-authoritative and treated as open on the client.
func (s OrderStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

type Order struct {
	ID              int         `json:"id"`
	Status          OrderStatus `json:"status"`
	StatusDisplay   string      `json:"status_display"`
	UserFullName    string      `json:"user_full_name"`
	UserEmail       string      `json:"user_email"`
	Address         string      `json:"address"`
	ServicesDetails []Service   `json:"services_details"`
	TotalCost       float64     `json:"total_cost"`
	CreatedAt       time.Time   `json:"created_at"`
}
