package types

import "time"

type Employee struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      *string   `db:"email" json:"email"`
	Department *string   `db:"department" json:"department"`
	IsAdmin    bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

func (e *Employee) Caller() Caller {
	return Caller{EmployeeID: e.ID, IsAdmin: e.IsAdmin}
}
