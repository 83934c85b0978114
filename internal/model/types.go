package model

import "time"

// DateLayout is the persisted form of issue and due dates.
const DateLayout = "2006-01-02"

// Book is a catalog title and its copy counters.
type Book struct {
	ID        int64   `db:"book_id" json:"id"`
	Title     string  `db:"title" json:"title"`
	Author    string  `db:"author" json:"author"`
	ISBN      *string `db:"isbn" json:"isbn,omitempty"`
	Quantity  int     `db:"quantity" json:"quantity"`  // copies owned
	Available int     `db:"available" json:"available"` // copies on the shelf
}

// Member is a registered borrower.
type Member struct {
	ID    int64   `db:"member_id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email *string `db:"email" json:"email,omitempty"`
	Phone string  `db:"phone" json:"phone,omitempty"`
}

// Loan is one lending transaction row.
type Loan struct {
	ID        int64     `db:"transaction_id" json:"id"`
	BookID    int64     `db:"book_id" json:"book_id"`
	MemberID  int64     `db:"member_id" json:"member_id"`
	IssueDate time.Time `db:"issue_date" json:"issue_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	Returned  bool      `db:"returned" json:"returned"`
}

// LoanView is an open loan as shown to a member: the title and its dates.
type LoanView struct {
	LoanID    int64     `db:"transaction_id" json:"loan_id"`
	BookID    int64     `db:"book_id" json:"book_id"`
	Title     string    `db:"title" json:"title"`
	IssueDate time.Time `db:"issue_date" json:"issue_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
}

// Report summarizes the catalog at a point in time.
type Report struct {
	Titles          int `db:"titles" json:"titles"`
	Copies          int `db:"copies" json:"copies"`
	AvailableCopies int `db:"available" json:"available"`
	Members         int `json:"members"`
	OpenLoans       int `json:"open_loans"`
	OverdueLoans    int `json:"overdue_loans"`
}

// NewBook carries the fields accepted when adding a book.
// An empty ISBN is stored as NULL.
type NewBook struct {
	Title    string `json:"title" yaml:"title" validate:"required,max=512"`
	Author   string `json:"author" yaml:"author" validate:"required,max=256"`
	ISBN     string `json:"isbn,omitempty" yaml:"isbn,omitempty" validate:"omitempty,max=32"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"gte=0"`
}

// NewMember carries the fields accepted when adding a member.
// An empty Email is stored as NULL.
type NewMember struct {
	Name  string `json:"name" yaml:"name" validate:"required,max=256"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty" validate:"omitempty,max=32"`
}
