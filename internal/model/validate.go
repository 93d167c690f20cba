package model

import (
	"fmt"
	"net/mail"
	"net/url"
	"unicode/utf8"
)

// checkLength は文字数（ルーン数）がmin以上max以下であることを検証する。
func checkLength(field, value string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(value)
	if n < minLen {
		return NewValidationError(fmt.Sprintf("%s must be at least %d characters", field, minLen))
	}
	if n > maxLen {
		return NewValidationError(fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return nil
}

// namedString は検証順を固定するためのフィールド名と値の組。
type namedString struct {
	field string
	value *string
}

func checkEmail(value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return NewValidationError("email must be a valid email address")
	}
	return nil
}

// checkURL はhttp/httpsの絶対URLであることを検証する。
func checkURL(field, value string) error {
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewValidationError(fmt.Sprintf("%s must be a valid URL", field))
	}
	return nil
}

func checkOrder(order *int) error {
	if order != nil && *order < 0 {
		return NewValidationError("order must not be negative")
	}
	return nil
}

// maxPasswordBytes はbcryptが受け付けるパスワードの最大バイト数。
const maxPasswordBytes = 72

// ValidateRegistration は管理者登録の入力を検証する。
// パスワードの上限は文字数ではなくバイト数で判定する。
func ValidateRegistration(email, password, name string) error {
	if err := checkEmail(email); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return checkLength("name", name, 2, 100)
}

// Validate はプロジェクト作成入力を検証する。
func (in *ProjectInput) Validate() error {
	if err := checkLength("title", in.Title, 2, 100); err != nil {
		return err
	}
	if err := checkLength("description", in.Description, 10, 500); err != nil {
		return err
	}
	if in.Details != nil {
		if err := checkLength("details", *in.Details, 0, 500); err != nil {
			return err
		}
	}
	for _, f := range []namedString{{"imageUrl", in.ImageURL}, {"liveUrl", in.LiveURL}, {"githubUrl", in.GithubURL}} {
		if f.value != nil {
			if err := checkURL(f.field, *f.value); err != nil {
				return err
			}
		}
	}
	return checkOrder(in.Order)
}

// Validate はプロジェクト更新入力を検証する。
func (p *ProjectPatch) Validate() error {
	if p.Title != nil {
		if err := checkLength("title", *p.Title, 2, 100); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := checkLength("description", *p.Description, 10, 500); err != nil {
			return err
		}
	}
	if p.Details.Value != nil {
		if err := checkLength("details", *p.Details.Value, 0, 500); err != nil {
			return err
		}
	}
	return checkOrder(p.Order)
}

// Validate は職歴作成入力を検証する。
func (in *ExperienceInput) Validate() error {
	for _, f := range []namedString{{"jobTitle", &in.JobTitle}, {"company", &in.Company}, {"location", &in.Location}} {
		if err := checkLength(f.field, *f.value, 2, 100); err != nil {
			return err
		}
	}
	if in.StartDate.IsZero() {
		return NewValidationError("startDate is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return NewValidationError("endDate must not be before startDate")
	}
	if err := checkLength("description", in.Description, 10, 1000); err != nil {
		return err
	}
	return checkOrder(in.Order)
}

// Validate は職歴更新入力を検証する。
func (p *ExperiencePatch) Validate() error {
	for _, f := range []namedString{{"jobTitle", p.JobTitle}, {"company", p.Company}, {"location", p.Location}} {
		if f.value != nil {
			if err := checkLength(f.field, *f.value, 2, 100); err != nil {
				return err
			}
		}
	}
	if p.Description != nil {
		if err := checkLength("description", *p.Description, 10, 1000); err != nil {
			return err
		}
	}
	return checkOrder(p.Order)
}

// Validate はスキルカテゴリ作成入力を検証する。
func (in *SkillCategoryInput) Validate() error {
	if err := checkLength("name", in.Name, 2, 50); err != nil {
		return err
	}
	return checkOrder(in.Order)
}

// Validate はスキルカテゴリ更新入力を検証する。
func (p *SkillCategoryPatch) Validate() error {
	if p.Name != nil {
		if err := checkLength("name", *p.Name, 2, 50); err != nil {
			return err
		}
	}
	return checkOrder(p.Order)
}

// Validate はスキル作成入力を検証する。
func (in *SkillInput) Validate() error {
	if err := checkLength("name", in.Name, 1, 50); err != nil {
		return err
	}
	if in.CategoryID == "" {
		return NewValidationError("categoryId is required")
	}
	return checkOrder(in.Order)
}

// Validate はスキル更新入力を検証する。
func (p *SkillPatch) Validate() error {
	if p.Name != nil {
		if err := checkLength("name", *p.Name, 1, 50); err != nil {
			return err
		}
	}
	return checkOrder(p.Order)
}
