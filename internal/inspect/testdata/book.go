package testdata

import "time"

type Book struct {
	ID        int64     `db:"id,primaryKey"`
	AuthorID  *int64    `db:"author_id"`
	Title     string    `db:"title"`
	Deleted   bool      `db:"deleted"`
	CreatedAt time.Time // column inferred from the field name
	Author    *Author   `db:"author,relation"`
	Comments  []Comment `db:"comments,relation"`
	Cached    string    `db:"-"`
	internal  string    // unexported, skipped
	Tags      [2]string `db:"tags"`
}

type Author struct {
	ISBN string `db:"isbn,primaryKey"`
	Name string `db:"name"`
}

type Comment struct {
	Body string `db:"body"`
}

type notARecord int
