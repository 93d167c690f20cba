package model

import "time"

// AboutParagraph は自己紹介セクションの1段落。
type AboutParagraph struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// About は自己紹介セクション。単一行として保存される。
type About struct {
	ID        string           `json:"id"`
	Content   []AboutParagraph `json:"content"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// AboutParagraphInput は段落更新時の入力。IDとOrderは省略可能。
type AboutParagraphInput struct {
	ID    *string `json:"id"`
	Text  string  `json:"text"`
	Order *int    `json:"order"`
}

// AboutInput は自己紹介セクション更新時の入力。
type AboutInput struct {
	Content []AboutParagraphInput `json:"content"`
}

// Validate は各段落の本文長を検証する。
func (in *AboutInput) Validate() error {
	if in.Content == nil {
		return NewValidationError("content must be an array")
	}
	for _, p := range in.Content {
		if err := checkLength("text", p.Text, 10, 2000); err != nil {
			return err
		}
	}
	return nil
}
