// Package transcript содержит ядро хранилища академических ведомостей.
//
// Пакет определяет:
//
//   - Сущности: Student, CourseGrade, Transcript
//   - Интерфейс бэкенда: Backend (Get/Set по ключу)
//   - Store - три операции: AddStudent, GetTranscript, AddGrade
//
// # Хранение
//
// Store не знает, где лежат данные. Ведомость сериализуется в JSON и
// записывается в Backend под ключом, равным идентификатору студента.
// Реализации бэкендов (memory, redis, postgres, bolt) находятся в
// infrastructure/persistence.
//
// # Пример использования
//
//	store := transcript.NewStore(memory.NewBackend())
//
//	id, err := store.AddStudent(ctx, "Carol")
//	if err != nil {
//	    return err
//	}
//
//	if err := store.AddGrade(ctx, id, "Math", 91); err != nil {
//	    return err
//	}
//
//	t, err := store.GetTranscript(ctx, id)
//	if transcript.IsNotFound(err) {
//	    // такого студента нет
//	}
//
// # Ограничения
//
// Блокировок нет: параллельные AddGrade для одного студента могут потерять
// оценку. Ошибки бэкенда не переводятся и не повторяются - они уходят
// вызывающему как есть (обёрнутые через %w).
package transcript
