package db

import (
	"context"

	"gorm.io/gorm/clause"
)

func (s *Store) OperatorByUsername(ctx context.Context, username string) (*TgOperator, error) {
	return first[TgOperator](ctx, s, username, "tg_username = ?", username)
}

func (s *Store) ReviewsChannelByInviteLink(ctx context.Context, link string) (*TgReviewsChannel, error) {
	return first[TgReviewsChannel](ctx, s, link, "invite_link = ?", link)
}

func (s *Store) BotByToken(ctx context.Context, token string) (*TgBot, error) {
	return first[TgBot](ctx, s, "token", "token = ?", token)
}

func (s *Store) BotByTgID(ctx context.Context, tgID int64) (*TgBot, error) {
	return first[TgBot](ctx, s, tgID, "tg_id = ?", tgID)
}

func (s *Store) BotByUsername(ctx context.Context, username string) (*TgBot, error) {
	return first[TgBot](ctx, s, username, "tg_username = ?", username)
}

// BotsOfOperator возвращает ботов оператора вместе с каналами отзывов
func (s *Store) BotsOfOperator(ctx context.Context, operatorID int64) ([]TgBot, error) {
	var bots []TgBot
	err := s.db.WithContext(ctx).
		Preload("TgReviewsChannel").
		Where("tg_operator_id = ?", operatorID).
		Order("id").
		Find(&bots).Error
	return bots, err
}

func (s *Store) RunningBots(ctx context.Context) ([]TgBot, error) {
	var bots []TgBot
	err := s.db.WithContext(ctx).
		Preload("TgOperator").
		Preload("TgReviewsChannel").
		Where("is_running = ?", true).
		Order("id").
		Find(&bots).Error
	return bots, err
}

func (s *Store) SetBotRunning(ctx context.Context, botID int64, running bool) error {
	res := s.db.WithContext(ctx).Model(&TgBot{}).Where("id = ?", botID).Update("is_running", running)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("tg_bot", botID)
	}
	return nil
}

func (s *Store) CustomerByTgID(ctx context.Context, tgID int64) (*TgCustomer, error) {
	return first[TgCustomer](ctx, s, tgID, "tg_id = ?", tgID)
}

// UpsertCustomer создаёт покупателя или обновляет имя и username по tg_id.
// created_at при обновлении не меняется.
func (s *Store) UpsertCustomer(ctx context.Context, c *TgCustomer) error {
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tg_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tg_first_name", "tg_last_name", "tg_username"}),
		}).
		Create(c).Error
	return classify(err)
}

func (s *Store) BankByName(ctx context.Context, name string) (*Bank, error) {
	return first[Bank](ctx, s, name, "name = ?", name)
}

func (s *Store) BankAccountByCardNumber(ctx context.Context, card string) (*BankAccount, error) {
	return first[BankAccount](ctx, s, card, "card_number = ?", card)
}

func (s *Store) BankAccountsOfBank(ctx context.Context, bankID int64) ([]BankAccount, error) {
	var accounts []BankAccount
	err := s.db.WithContext(ctx).Where("bank_id = ?", bankID).Order("id").Find(&accounts).Error
	return accounts, err
}

func (s *Store) QiwiAccountByNickname(ctx context.Context, nickname string) (*QiwiWalletAccount, error) {
	return first[QiwiWalletAccount](ctx, s, nickname, "nickname = ?", nickname)
}

func (s *Store) QiwiAccountByPhone(ctx context.Context, phone string) (*QiwiWalletAccount, error) {
	return first[QiwiWalletAccount](ctx, s, phone, "phone_number = ?", phone)
}

func (s *Store) CreateBot(ctx context.Context, b *TgBot) error {
	return Create(ctx, s, b)
}
