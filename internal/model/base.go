package model

// Base 资源实体共享的标识字段，id 由存储层在创建时分配
type Base struct {
	ID string `json:"id"`
}

func (b Base) GetID() string {
	return b.ID
}
