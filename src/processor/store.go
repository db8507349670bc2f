package processor

import (
	"context"
	"sync"
	"sync/atomic"
)

// Builder 构建数据集，进程内只会被调用一次
type Builder interface {
	Build(ctx context.Context) (*Dataset, error)
}

// BuilderFunc 函数适配 Builder
type BuilderFunc func(ctx context.Context) (*Dataset, error)

func (f BuilderFunc) Build(ctx context.Context) (*Dataset, error) {
	return f(ctx)
}

// Store 进程级的数据集缓存
// 第一次 Get 时构建，并发的首次访问也只构建一次，之后所有调用方拿到同一个数据集
type Store struct {
	builder Builder
	once    sync.Once
	loaded  atomic.Bool
	ds      *Dataset
	err     error
}

// NewStore 创建缓存，builder 在第一次 Get 时才执行
func NewStore(builder Builder) *Store {
	return &Store{builder: builder}
}

// Get 返回数据集
// 构建不跟随调用方的取消，避免一次被取消的请求让缓存永久失败
func (s *Store) Get(ctx context.Context) (*Dataset, error) {
	s.once.Do(func() {
		s.ds, s.err = s.builder.Build(context.WithoutCancel(ctx))
		if s.ds == nil {
			s.ds = NewDataset(nil)
		}
		s.loaded.Store(true)
	})
	return s.ds, s.err
}

// Loaded 数据集是否已经构建
func (s *Store) Loaded() bool {
	return s.loaded.Load()
}
