package repository

// Schema описывает ресурс: имя коллекции, порядок вывода,
// флаг видимости, натуральный ключ и колонки со ссылками на файлы
type Schema struct {
	// Name — ключ коллекции в ответах (отчет об использовании файла, поиск)
	Name string
	// Path — сегмент URL: /api/<path>
	Path string
	// Label — имя записи в сообщениях об ошибках
	Label       string
	Model       any
	OrderBy     string
	Activatable bool
	// NaturalKey — колонка с уникальным смысловым ключом для upsert
	NaturalKey  string
	FileColumns []string
	// TextColumns — свободный текст, в котором могут встречаться ссылки на файлы;
	// учитываются только при автоматическом удалении файлов
	TextColumns []string
}

// NotFoundMessage — текст ошибки для отсутствующей записи
func (s Schema) NotFoundMessage() string {
	return s.Label + " not found"
}

// OwnsFiles сообщает, хранит ли ресурс ссылки на загруженные файлы
func (s Schema) OwnsFiles() bool {
	return len(s.FileColumns) > 0
}
