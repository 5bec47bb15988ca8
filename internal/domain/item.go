package domain

import (
	"strings"
	"time"
)

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusOnLoan    ItemStatus = "on-loan"
	ItemStatusTraded    ItemStatus = "traded"
)

type ItemCondition string

const (
	ItemConditionNew     ItemCondition = "new"
	ItemConditionLikeNew ItemCondition = "like-new"
	ItemConditionGood    ItemCondition = "good"
	ItemConditionFair    ItemCondition = "fair"
	ItemConditionWorn    ItemCondition = "worn"
)

func (c ItemCondition) Valid() bool {
	switch c {
	case ItemConditionNew, ItemConditionLikeNew, ItemConditionGood, ItemConditionFair, ItemConditionWorn:
		return true
	}
	return false
}

type Item struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	OwnerName    string        `json:"owner_name"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	Condition    ItemCondition `json:"condition"`
	Location     string        `json:"location"`
	Landmark     string        `json:"landmark"`
	LookingFor   string        `json:"looking_for"`
	ImageURL     string        `json:"image_url"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Status       ItemStatus    `json:"status"`
	Preference   TradeTerms    `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ItemDetails are the descriptive, owner-editable fields of an item.
type ItemDetails struct {
	Name        string
	Description string
	Category    string
	Condition   ItemCondition
	Location    string
	Landmark    string
	LookingFor  string
}

func (d *ItemDetails) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
	d.Landmark = strings.TrimSpace(d.Landmark)
	d.LookingFor = strings.TrimSpace(d.LookingFor)
}

func (d ItemDetails) Validate() error {
	if d.Name == "" {
		return Validation("item name is required")
	}
	if len(d.Name) > 120 {
		return Validation("item name must be at most 120 characters")
	}
	if d.Category == "" {
		return Validation("item category is required")
	}
	if !d.Condition.Valid() {
		return Validation("item condition %q is not recognised", d.Condition)
	}
	return nil
}

func (i *Item) ApplyDetails(d ItemDetails) {
	i.Name = d.Name
	i.Description = d.Description
	i.Category = d.Category
	i.Condition = d.Condition
	i.Location = d.Location
	i.Landmark = d.Landmark
	i.LookingFor = d.LookingFor
}

// LockStatus is the item status that accepting a trade with these terms implies.
func LockStatus(terms TradeTerms) ItemStatus {
	if terms.Type() == TradeTypeTemporary {
		return ItemStatusOnLoan
	}
	return ItemStatusTraded
}
