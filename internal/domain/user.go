package domain

// PlaceholderUsername is returned for every user lookup; users are not persisted.
const PlaceholderUsername = "Elon Musk"

type User struct {
	ID       uint32
	Username string
}
