package models

type Parent struct {
	ID          uint   `json:"id" gorm:"primary_key"`
	FirebaseUID string `json:"firebase_uid" gorm:"uniqueIndex"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Lang        string `json:"lang"`
	DeviceToken string `json:"device_token"`
}
