package domain

// File представляет один загруженный файл экспорта, целиком находящийся в памяти.
// Буфер живет только до окончания обработки и нигде не сохраняется.
type File struct {
	Name string
	MIME string
	Data []byte
}

// Message — каноническая модель сообщения, которую обязан выдавать каждый
// нормализатор независимо от исходного диалекта экспорта.
// Пустая строка означает отсутствующее значение.
type Message struct {
	// Author — отображаемое имя автора.
	Author string
	// AuthorHandle — уникальный username автора. JSON-диалект его никогда
	// не заполняет, HTML-диалект — по ссылке на профиль.
	AuthorHandle string
	// IsChannel — true, если источник сообщения классифицирован как канал.
	IsChannel bool
	// Text — текст сообщения одной строкой.
	Text string
	// Mentions — упомянутые username в порядке первого вхождения,
	// без дубликатов внутри одного сообщения.
	Mentions []string
}

// Participant представляет уникального автора сообщений.
type Participant struct {
	Name string `json:"name"`
	// Username может отсутствовать: тогда участник учитывается по имени.
	Username string `json:"username,omitempty"`
	// Bio и RegisteredAt не заполняются ни одним из текущих форматов экспорта,
	// но присутствуют в отчете.
	Bio          string `json:"bio,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
	HasChannel   bool   `json:"has_channel"`
}

// Mention представляет один упомянутый username.
type Mention struct {
	Username string `json:"username"`
}

// Channel представляет канал, встреченный среди авторов сообщений.
type Channel struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Entities — результат извлечения по всем сообщениям одного запуска обработки.
type Entities struct {
	Participants []Participant `json:"participants"`
	Mentions     []Mention     `json:"mentions"`
	Channels     []Channel     `json:"channels"`
}
