package model

import "time"

// ContactMessage は公開フォームから送信された問い合わせ。
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactInput は問い合わせ送信時の入力。
type ContactInput struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Subject *string `json:"subject"`
	Message string  `json:"message"`
}

// Validate は入力値の形式と長さを検証する。
func (in *ContactInput) Validate() error {
	if err := checkLength("name", in.Name, 2, 100); err != nil {
		return err
	}
	if err := checkEmail(in.Email); err != nil {
		return err
	}
	if in.Subject != nil {
		if err := checkLength("subject", *in.Subject, 0, 200); err != nil {
			return err
		}
	}
	return checkLength("message", in.Message, 10, 5000)
}
