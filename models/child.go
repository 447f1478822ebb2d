package models

// Child is a supervised account. ParentUID links it to the parent that
// manages its policy.
type Child struct {
	ID          uint   `json:"id" gorm:"primary_key"`
	FirebaseUID string `json:"firebase_uid" gorm:"uniqueIndex"`
	ParentUID   string `json:"parent_uid" gorm:"index"`
	Name        string `json:"name"`
	Lang        string `json:"lang"`
	DeviceToken string `json:"device_token"`
}

// BelongsTo reports whether the child is managed by parentUID.
func (c Child) BelongsTo(parentUID string) bool {
	return c.ParentUID != "" && c.ParentUID == parentUID
}
