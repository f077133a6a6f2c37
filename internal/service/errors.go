package service

import "errors"

var (
	ErrBanned         = errors.New("аккаунт заблокирован")
	ErrPlayerNotFound = errors.New("профиль не найден")
)

// PreconditionError - нарушение игрового предусловия. Message уходит игроку
// как есть, Hint добавляется в тело ответа для клиентской логики
// (например, nextChestIn).
type PreconditionError struct {
	Message string
	Hint    map[string]interface{}
}

func (e *PreconditionError) Error() string { return e.Message }

func precondition(msg string) *PreconditionError {
	return &PreconditionError{Message: msg}
}
