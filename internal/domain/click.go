package domain

import (
	"encoding/json"
	"time"
)

const (
	// UnknownValue заполняет гео-поля, когда определить их не удалось
	UnknownValue = "Unknown"
	// DirectReferrer используется, когда заголовок Referer отсутствует
	DirectReferrer = "Direct"
)

// Click представляет клик по сокращенной ссылке.
// Порядок вставки (ID) совпадает с хронологическим порядком.
type Click struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"-"`
	LinkID     int64     `gorm:"column:link_id;not null;index" json:"-"`
	Timestamp  time.Time `gorm:"column:clicked_at;not null;index" json:"timestamp"`
	IPAddress  string    `gorm:"column:ip_address;size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"column:user_agent;type:text" json:"userAgent"`
	Referrer   string    `gorm:"column:referrer;size:500" json:"referrer"`
	Country    string    `gorm:"column:country;size:100;not null;default:'Unknown'" json:"-"`
	City       string    `gorm:"column:city;size:100;not null;default:'Unknown'" json:"-"`
	DeviceType string    `gorm:"column:device_type;size:10" json:"deviceType,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	Browser    string    `gorm:"column:browser;size:50" json:"browser,omitempty"`
	OS         string    `gorm:"column:os;size:50" json:"os,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Click) TableName() string {
	return "clicks"
}

// Geo результат геолокации клика
type Geo struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// UnknownGeo возвращает гео-данные по умолчанию
func UnknownGeo() Geo {
	return Geo{Country: UnknownValue, City: UnknownValue}
}

// GeoInfo возвращает гео-данные клика, подставляя "Unknown" для пустых значений
func (c *Click) GeoInfo() Geo {
	geo := Geo{Country: c.Country, City: c.City}
	if geo.Country == "" {
		geo.Country = UnknownValue
	}
	if geo.City == "" {
		geo.City = UnknownValue
	}
	return geo
}

// MarshalJSON добавляет к клику вложенный объект geo: {country, city}
func (c Click) MarshalJSON() ([]byte, error) {
	type plain Click
	return json.Marshal(struct {
		plain
		Geo Geo `json:"geo"`
	}{plain: plain(c), Geo: c.GeoInfo()})
}

// UnmarshalJSON читает geo обратно в Country и City
func (c *Click) UnmarshalJSON(data []byte) error {
	type plain Click
	aux := struct {
		*plain
		Geo *Geo `json:"geo"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Geo != nil {
		c.Country = aux.Geo.Country
		c.City = aux.Geo.City
	}
	return nil
}

// GetDeviceType возвращает тип устройства или "unknown"
func (c *Click) GetDeviceType() string {
	if c.DeviceType != "" {
		return c.DeviceType
	}
	return "unknown"
}
