package store

import (
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
)

// SeedMenu is the starter menu used when no menu has been saved yet.
func SeedMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "Nasi Goreng Spesial", Category: enum.CategoryFood, HPP: 12000, Price: 25000, Description: "Telur, Ayam, Sosis"},
		{ID: "2", Name: "Mie Goreng Seafood", Category: enum.CategoryFood, HPP: 15000, Price: 30000, Description: "Udang, Cumi"},
		{ID: "3", Name: "Kwetiaw Siram Sapi", Category: enum.CategoryFood, HPP: 18000, Price: 35000, Description: "Daging sapi iris"},
		{ID: "4", Name: "Es Teh Manis", Category: enum.CategoryBeverage, HPP: 2000, Price: 5000},
		{ID: "5", Name: "Es Jeruk", Category: enum.CategoryBeverage, HPP: 4000, Price: 10000},
		{ID: "6", Name: "Kerupuk Putih", Category: enum.CategoryAddOn, HPP: 500, Price: 2000},
	}
}

func SeedProfile() domain.StoreProfile {
	return domain.StoreProfile{
		Name:        "Nasi Goreng AI",
		Address:     "Jl. Rasa No. 1, Jakarta",
		Phone:       "0812-3456-7890",
		SocialMedia: "@nasigorengai",
		FooterText:  "Powered by NasiGorAI",
	}
}
