package db

import (
	"strconv"
	"strings"
)

// ProductUnitCountString форматирует количество фасовки: миллиграммы
// показываются в граммах без лишних нулей ("1.5г", "2г"), штуки - целым числом ("3шт").
func ProductUnitCountString(count int, countType ProductUnitCountType) string {
	switch countType {
	case CountTypeMilligram:
		return strconv.FormatFloat(float64(count)/1000, 'f', -1, 64) + "г"
	case CountTypePiece:
		return strconv.Itoa(count) + "шт"
	default:
		return strconv.Itoa(count)
	}
}

func (o TgOperator) String() string { return o.TgUsername }

func (c TgReviewsChannel) String() string { return c.InviteLink }

func (b TgBot) String() string { return b.TgUsername }

// String: "Имя Фамилия @username", необязательные части опускаются
func (c TgCustomer) String() string {
	var sb strings.Builder
	sb.WriteString(c.TgFirstName)
	if c.TgLastName != nil {
		sb.WriteString(" " + *c.TgLastName)
	}
	if c.TgUsername != nil {
		sb.WriteString(" @" + *c.TgUsername)
	}
	return sb.String()
}

func (c City) String() string { return c.Name }

// String: "Город, Район". Без подгруженного города - только название района.
func (d District) String() string {
	if d.City == nil {
		return d.Name
	}
	return d.City.Name + ", " + d.Name
}

func (p Product) String() string { return p.Name }

func (u ProductUnit) CountString() string {
	return ProductUnitCountString(u.Count, u.CountType)
}

// String: "Товар 1.5г"
func (u ProductUnit) String() string {
	if u.Product == nil {
		return u.CountString()
	}
	return u.Product.Name + " " + u.CountString()
}

func (b Bank) String() string { return b.Name }

func (a BankAccount) String() string {
	if a.Bank == nil {
		return a.CardNumber
	}
	return a.Bank.Name + ", " + a.CardNumber
}

// String: никнейм, а если его нет - телефон
func (a QiwiWalletAccount) String() string {
	switch {
	case a.Nickname != nil:
		return *a.Nickname
	case a.PhoneNumber != nil:
		return *a.PhoneNumber
	}
	return ""
}

func (o Order) String() string { return strconv.FormatInt(o.ID, 10) }
