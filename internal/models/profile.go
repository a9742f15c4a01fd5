package models

// BusinessProfile представляет бизнес-профиль пользователя: реквизиты,
// которыми оформляются документы и письма. Одна запись на пользователя.
type BusinessProfile struct {
	UserUID string // Владелец профиля
	Name    string // Название компании
	LogoURL string // Ссылка на логотип (опционально)
	Email   string // Контактная почта компании
	Phone   string // Телефон
	Address string // Адрес
	City    string // Город
	State   string // Регион
	Zip     string // Почтовый индекс
	Country string // Страна
}

// DummyBusinessProfile используется для приёма бизнес-профиля из JSON-запроса.
type DummyBusinessProfile struct {
	Name    string `json:"name" validate:"required"`
	LogoURL string `json:"logo_url" validate:"omitempty,url"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}
