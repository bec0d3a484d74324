package transcript

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// BACKEND INTERFACE
// Контракт внешнего key-value хранилища. Реализации находятся в
// infrastructure/persistence (memory, redis, postgres, bolt).
// ══════════════════════════════════════════════════════════════════════════════

// Backend - минимальное key-value хранилище, которым пользуется Store.
type Backend interface {
	// Get возвращает значение по ключу. found == false, если ключа нет;
	// это не ошибка.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set записывает значение по ключу, заменяя предыдущее.
	Set(ctx context.Context, key string, value []byte) error
}

// IDGenerator выдаёт новые идентификаторы студентов.
type IDGenerator func() StudentID
