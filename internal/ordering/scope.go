// Package ordering は並び替え可能なコレクションの表示順（order）の一貫性を管理する。
package ordering

// Scope はorder値が一意であるべき範囲を表す。
// Table と ParentColumn はスコープ生成関数で固定され、利用者入力から組み立てない。
type Scope struct {
	// Entity はNotFoundメッセージに使うエンティティ名。
	Entity string
	// Table は対象テーブル名。
	Table string
	// ParentColumn は親IDで絞り込む列名。空の場合はテーブル全体が1スコープ。
	ParentColumn string
	// ParentID は ParentColumn の値。
	ParentID string
}

// Key はスコープを一意に識別する文字列を返す。ログやテスト用。
func (s Scope) Key() string {
	if s.ParentColumn == "" {
		return s.Table
	}
	return s.Table + ":" + s.ParentColumn + "=" + s.ParentID
}

// ProjectsScope は全プロジェクトのスコープを返す。
func ProjectsScope() Scope {
	return Scope{Entity: "Project", Table: "projects"}
}

// ExperiencesScope は全職歴のスコープを返す。
func ExperiencesScope() Scope {
	return Scope{Entity: "Experience", Table: "experiences"}
}

// SkillCategoriesScope は全スキルカテゴリのスコープを返す。
func SkillCategoriesScope() Scope {
	return Scope{Entity: "Skill category", Table: "skill_categories"}
}

// SkillsScope は1カテゴリ内のスキルのスコープを返す。
func SkillsScope(categoryID string) Scope {
	return Scope{Entity: "Skill", Table: "skills", ParentColumn: "category_id", ParentID: categoryID}
}
