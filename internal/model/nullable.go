package model

import (
	"bytes"
	"encoding/json"
)

// Nullable はJSONの部分更新で「未指定」「null」「値あり」の3状態を区別するフィールド。
// キーが存在しない場合UnmarshalJSONは呼ばれないため、Setはfalseのままになる。
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON はjson.Unmarshalerを実装する。
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// NullableOf は値ありのNullableを生成する。
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// NullableNull は明示的にnullを指定したNullableを生成する。
func NullableNull[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}
