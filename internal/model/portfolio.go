package model

import "time"

// Project はポートフォリオに掲載するプロジェクトを表す。
// 一覧は featured 降順、order 昇順で並ぶ。
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Details     *string   `json:"details"`
	ImageURL    *string   `json:"imageUrl"`
	LiveURL     *string   `json:"liveUrl"`
	GithubURL   *string   `json:"githubUrl"`
	TechStack   []string  `json:"techStack"`
	Featured    bool      `json:"featured"`
	IsVisible   bool      `json:"isVisible"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectInput はプロジェクト作成時の入力。
// Orderがnilの場合はスコープ内の末尾に追加される。
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Details     *string  `json:"details"`
	ImageURL    *string  `json:"imageUrl"`
	LiveURL     *string  `json:"liveUrl"`
	GithubURL   *string  `json:"githubUrl"`
	TechStack   []string `json:"techStack"`
	Featured    *bool    `json:"featured"`
	IsVisible   *bool    `json:"isVisible"`
	Order       *int     `json:"order"`
}

// ProjectPatch はプロジェクト更新時の入力。指定されたフィールドのみ更新する。
type ProjectPatch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Details     Nullable[string] `json:"details"`
	ImageURL    Nullable[string] `json:"imageUrl"`
	LiveURL     Nullable[string] `json:"liveUrl"`
	GithubURL   Nullable[string] `json:"githubUrl"`
	TechStack   *[]string        `json:"techStack"`
	Featured    *bool            `json:"featured"`
	IsVisible   *bool            `json:"isVisible"`
	Order       *int             `json:"order"`
}

// Experience は職歴の1エントリを表す。
type Experience struct {
	ID          string     `json:"id"`
	JobTitle    string     `json:"jobTitle"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Description string     `json:"description"`
	IsVisible   bool       `json:"isVisible"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ExperienceInput は職歴作成時の入力。
type ExperienceInput struct {
	JobTitle    string
	Company     string
	Location    string
	StartDate   time.Time
	EndDate     *time.Time
	Description string
	IsVisible   *bool
	Order       *int
}

// ExperiencePatch は職歴更新時の入力。EndDateはnullで「現在も在籍」に戻せる。
type ExperiencePatch struct {
	JobTitle    *string
	Company     *string
	Location    *string
	StartDate   *time.Time
	EndDate     Nullable[time.Time]
	Description *string
	IsVisible   *bool
	Order       *int
}

// SkillCategory はスキルのカテゴリを表す。Skillsはorder昇順。
type SkillCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsVisible bool      `json:"isVisible"`
	Order     int       `json:"order"`
	Skills    []*Skill  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SkillCategoryInput はカテゴリ作成時の入力。
type SkillCategoryInput struct {
	Name      string `json:"name"`
	IsVisible *bool  `json:"isVisible"`
	Order     *int   `json:"order"`
}

// SkillCategoryPatch はカテゴリ更新時の入力。
type SkillCategoryPatch struct {
	Name      *string `json:"name"`
	IsVisible *bool   `json:"isVisible"`
	Order     *int    `json:"order"`
}

// Skill はカテゴリに属するスキルを表す。orderはカテゴリ内で一意。
type Skill struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Name       string    `json:"name"`
	IsVisible  bool      `json:"isVisible"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SkillInput はスキル作成時の入力。
type SkillInput struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	IsVisible  *bool  `json:"isVisible"`
	Order      *int   `json:"order"`
}

// SkillPatch はスキル更新時の入力。
type SkillPatch struct {
	Name      *string `json:"name"`
	IsVisible *bool   `json:"isVisible"`
	Order     *int    `json:"order"`
}
