package storage

import (
	"strings"
)

// Записи в БД хранят публичные пути вида /uploads/audio/a.mp3.
// Перед обращением к файловой системе такой путь приводится к ключу
// относительно корня хранилища: ведущий слеш отбрасывается, обратные
// слеши от других платформ заменяются на прямые.

const uploadsPrefix = "/uploads"

// NormalizeStoredPath приводит сохраненный путь к канонической форме
// с прямыми слешами и ведущим "/".
func NormalizeStoredPath(stored string) string {
	p := strings.ReplaceAll(stored, "\\", "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// IsManagedUpload сообщает, указывает ли путь внутрь управляемого
// дерева uploads/. Внешние URL (https://...) управляемыми не считаются.
func IsManagedUpload(stored string) bool {
	if stored == "" {
		return false
	}
	p := NormalizeStoredPath(stored)
	return p == uploadsPrefix || strings.HasPrefix(p, uploadsPrefix+"/")
}

// ToStorageKey превращает сохраненный путь в ключ относительно корня
// хранилища: "/uploads/audio/a.mp3" -> "audio/a.mp3".
// Второе значение - false, если путь не из управляемого дерева.
func ToStorageKey(stored string) (string, bool) {
	if !IsManagedUpload(stored) {
		return "", false
	}
	p := NormalizeStoredPath(stored)
	key := strings.TrimPrefix(p, uploadsPrefix)
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", false
	}
	return key, true
}
