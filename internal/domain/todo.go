package domain

const (
	StatusNew       = "New"
	StatusCompleted = "Completed"
)

// Todo maps onto the todos(id, title, description, status) table. Status is
// free text; only StatusNew and StatusCompleted are ever written by the service.
type Todo struct {
	ID          int32   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Description *string `gorm:"type:text"`
	Status      string  `gorm:"type:varchar(32);not null;default:New"`
}

func (Todo) TableName() string {
	return "todos"
}
