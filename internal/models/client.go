package models

import "time"

// Client представляет контактный и платёжный профиль клиента,
// принадлежащий пользователю. Счета ссылаются на клиента мягкой связью:
// удаление клиента не удаляет его счета.
type Client struct {
	ID           string    // Уникальный идентификатор клиента
	UserUID      string    // Владелец записи
	Name         string    // Контактное имя
	BusinessName string    // Название компании (опционально)
	Email        string    // Электронная почта для выставления счетов
	Phone        string    // Телефон (опционально)
	Address      string    // Адрес
	City         string    // Город
	State        string    // Регион
	Zip          string    // Почтовый индекс
	Country      string    // Страна
	Notes        string    // Произвольные заметки
	CreatedAt    time.Time // Дата создания записи
}

// DummyClient используется для приёма данных клиента из JSON-запроса.
type DummyClient struct {
	Name         string `json:"name" validate:"required"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
	Notes        string `json:"notes"`
}
