package domain

import "time"

type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

type Supplier struct {
	ID            int64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	CreatedAt     time.Time
}

type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}
