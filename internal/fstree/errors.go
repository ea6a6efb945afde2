package fstree

import "errors"

var (
	ErrEnumeration = errors.New("не удалось обойти дерево файлов")
	ErrCopy        = errors.New("не удалось скопировать дерево файлов")
)
