package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CityByName(ctx context.Context, name string) (*City, error) {
	return first[City](ctx, s, name, "name = ?", name)
}

// DistrictByName ищет район по паре (город, название)
func (s *Store) DistrictByName(ctx context.Context, cityID int64, name string) (*District, error) {
	var d District
	err := s.db.WithContext(ctx).Preload("City").Where("city_id = ? AND name = ?", cityID, name).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("district", fmt.Sprintf("%d/%s", cityID, name))
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) DistrictsOfCity(ctx context.Context, cityID int64) ([]District, error) {
	var districts []District
	err := s.db.WithContext(ctx).Preload("City").Where("city_id = ?", cityID).Order("name").Find(&districts).Error
	return districts, err
}

func (s *Store) ProductByName(ctx context.Context, name string) (*Product, error) {
	return first[Product](ctx, s, name, "name = ?", name)
}

func (s *Store) ProductUnitsOfProduct(ctx context.Context, productID int64) ([]ProductUnit, error) {
	var units []ProductUnit
	err := s.db.WithContext(ctx).Preload("Product").Where("product_id = ?", productID).Order("id").Find(&units).Error
	return units, err
}

// CreateDistrictProductUnit задаёт цену фасовки в районе. Повторная вставка той же
// пары падает на первичном ключе (ErrUniqueViolation).
func (s *Store) CreateDistrictProductUnit(ctx context.Context, dpu *DistrictProductUnit) error {
	return classify(s.db.WithContext(ctx).Omit(clause.Associations).Create(dpu).Error)
}

func (s *Store) UpdateDistrictProductUnitPrice(ctx context.Context, districtID, productUnitID int64, price int) error {
	res := s.db.WithContext(ctx).Model(&DistrictProductUnit{}).
		Where("district_id = ? AND product_unit_id = ?", districtID, productUnitID).
		Update("price", price)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("district_product_unit", fmt.Sprintf("%d/%d", districtID, productUnitID))
	}
	return nil
}

func (s *Store) DeleteDistrictProductUnit(ctx context.Context, districtID, productUnitID int64) error {
	res := s.db.WithContext(ctx).
		Where("district_id = ? AND product_unit_id = ?", districtID, productUnitID).
		Delete(&DistrictProductUnit{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("district_product_unit", fmt.Sprintf("%d/%d", districtID, productUnitID))
	}
	return nil
}

func (s *Store) DistrictProductUnit(ctx context.Context, districtID, productUnitID int64) (*DistrictProductUnit, error) {
	var dpu DistrictProductUnit
	err := s.db.WithContext(ctx).
		Preload("District.City").
		Preload("ProductUnit.Product").
		Where("district_id = ? AND product_unit_id = ?", districtID, productUnitID).
		First(&dpu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("district_product_unit", fmt.Sprintf("%d/%d", districtID, productUnitID))
	}
	if err != nil {
		return nil, err
	}
	return &dpu, nil
}

// PriceFor возвращает текущую цену фасовки в районе
func (s *Store) PriceFor(ctx context.Context, districtID, productUnitID int64) (int, error) {
	var prices []int
	err := s.db.WithContext(ctx).Model(&DistrictProductUnit{}).
		Where("district_id = ? AND product_unit_id = ?", districtID, productUnitID).
		Limit(1).
		Pluck("price", &prices).Error
	if err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, notFound("district_product_unit", fmt.Sprintf("%d/%d", districtID, productUnitID))
	}
	return prices[0], nil
}

// OffersOfDistrict - строки цен района с подгруженными фасовками и товарами
func (s *Store) OffersOfDistrict(ctx context.Context, districtID int64) ([]DistrictProductUnit, error) {
	var offers []DistrictProductUnit
	err := s.db.WithContext(ctx).
		Preload("ProductUnit.Product").
		Where("district_id = ?", districtID).
		Order("product_unit_id").
		Find(&offers).Error
	return offers, err
}

// Связь многие-ко-многим между районами и фасовками не хранится отдельно:
// она вычисляется по district_product_unit и доступна только на чтение.

func (s *Store) ProductUnitsOfDistrict(ctx context.Context, districtID int64) ([]ProductUnit, error) {
	linked := s.db.Model(&DistrictProductUnit{}).Select("product_unit_id").Where("district_id = ?", districtID)
	var units []ProductUnit
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("id IN (?)", linked).
		Order("id").
		Find(&units).Error
	return units, err
}

func (s *Store) DistrictsOfProductUnit(ctx context.Context, productUnitID int64) ([]District, error) {
	linked := s.db.Model(&DistrictProductUnit{}).Select("district_id").Where("product_unit_id = ?", productUnitID)
	var districts []District
	err := s.db.WithContext(ctx).
		Preload("City").
		Where("id IN (?)", linked).
		Order("id").
		Find(&districts).Error
	return districts, err
}

// ProductsOfDistrict - товары, у которых есть хотя бы одна фасовка с ценой в районе
func (s *Store) ProductsOfDistrict(ctx context.Context, districtID int64) ([]Product, error) {
	linked := s.db.Model(&ProductUnit{}).
		Select("product_unit.product_id").
		Joins("JOIN district_product_unit ON district_product_unit.product_unit_id = product_unit.id").
		Where("district_product_unit.district_id = ?", districtID)
	var products []Product
	err := s.db.WithContext(ctx).
		Where("id IN (?)", linked).
		Order("name").
		Find(&products).Error
	return products, err
}
