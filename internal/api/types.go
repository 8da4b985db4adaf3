package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Register types accepted by the registers filter.
const (
	RegisterTypeVaccination = "VACINAÇÃO"
	RegisterTypeMeasurement = "MEDIÇÃO E PESAGEM"
	RegisterTypeDeworming   = "VERMIFUGAÇÃO"
	RegisterTypeTournament  = "TORNEIO"
)

// FlexFloat handles JSON numbers that may come as strings or numbers
type FlexFloat float64

func (ff *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Try as float first
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*ff = FlexFloat(f)
		return nil
	}
	// Try as string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*ff = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*ff = FlexFloat(f)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into FlexFloat", data)
}

// Ack is the body of operations that only report success.
type Ack struct {
	OK bool `json:"ok"`
}

// Address is a breeder's postal address.
type Address struct {
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Street   string `json:"street,omitempty"`
	Number   int    `json:"number,omitempty"`
	ZipCode  string `json:"zipcode,omitempty"`
}

// Breeder is a breeding farm. Zero fields are omitted, so a Breeder doubles
// as a partial update.
type Breeder struct {
	ID              string     `json:"id,omitempty"`
	Name            string     `json:"name,omitempty"`
	Description     string     `json:"description,omitempty"`
	Code            string     `json:"code,omitempty"`
	Address         *Address   `json:"address,omitempty"`
	FoundationDate  *time.Time `json:"foundationDate,omitempty"`
	MainVideo       string     `json:"mainVideo,omitempty"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	Active          *bool      `json:"active,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

type BreederImage struct {
	ID        string `json:"id"`
	BreederID string `json:"breederId,omitempty"`
	ImageURL  string `json:"imageUrl"`
}

type BreederContact struct {
	ID        string `json:"id,omitempty"`
	BreederID string `json:"breederId,omitempty"`
	Type      string `json:"type,omitempty"`
	Value     string `json:"value,omitempty"`
}

// BreederDetail is a breeder with its images and contacts.
type BreederDetail struct {
	Breeder
	Images   []BreederImage   `json:"images"`
	Contacts []BreederContact `json:"contacts"`
}

type GetBreederResponse struct {
	OK      bool          `json:"ok"`
	Breeder BreederDetail `json:"breeder"`
}

// PoultryColors describes plumage, shins, and eyes.
type PoultryColors struct {
	Plumage string `json:"plumage,omitempty"`
	Shins   string `json:"shins,omitempty"`
	Eyes    string `json:"eyes,omitempty"`
}

// Poultry is a bird owned by a breeder. Zero fields are omitted.
type Poultry struct {
	ID             string         `json:"id,omitempty"`
	BreederID      string         `json:"breederId,omitempty"`
	Name           string         `json:"name,omitempty"`
	Type           string         `json:"type,omitempty"`
	Birth          *time.Time     `json:"birthDate,omitempty"`
	Colors         *PoultryColors `json:"colors,omitempty"`
	Video          string         `json:"videoUrl,omitempty"`
	Description    string         `json:"description,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	GenderCategory string         `json:"genderCategory,omitempty"`
	Register       string         `json:"register,omitempty"`
	CrestType      string         `json:"crestType,omitempty"`
	DewlapType     string         `json:"dewlapType,omitempty"`
	TailType       string         `json:"tailType,omitempty"`
	Tag            string         `json:"tag,omitempty"`
	ForSale        *bool          `json:"forSale,omitempty"`
	IsAlive        *bool          `json:"isAlive,omitempty"`
	MainImage      string         `json:"mainImage,omitempty"`
}

type PoultryImage struct {
	ID        string `json:"id"`
	PoultryID string `json:"poultryId,omitempty"`
	ImageURL  string `json:"imageUrl"`
}

type RegisterFile struct {
	ID       string `json:"id,omitempty"`
	FileName string `json:"fileName"`
}

// PoultryRegister is a dated record about a bird (vaccination, weighing, ...).
type PoultryRegister struct {
	ID           string         `json:"id,omitempty"`
	PoultryID    string         `json:"poultryId,omitempty"`
	RegisterType string         `json:"type,omitempty"`
	Description  string         `json:"description,omitempty"`
	Date         *time.Time     `json:"date,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Files        []RegisterFile `json:"files,omitempty"`
}

// PoultryDetail is a bird with its images and registers.
type PoultryDetail struct {
	Poultry
	Images    []PoultryImage    `json:"images"`
	Registers []PoultryRegister `json:"registers"`
}

type PostPoultryResponse struct {
	OK      bool    `json:"ok"`
	Poultry Poultry `json:"poultry"`
}

type GetPoultryResponse struct {
	OK           bool          `json:"ok"`
	Poultry      PoultryDetail `json:"poultry"`
	Advertisings []Advertising `json:"advertisings"`
}

// PoultryGroups is a breeder's flock split by category.
type PoultryGroups struct {
	Reproductives []Poultry `json:"reproductives"`
	Matrix        []Poultry `json:"matrix"`
	Male          []Poultry `json:"male"`
	Female        []Poultry `json:"female"`
}

type poultriesResponse struct {
	OK bool `json:"ok"`
	PoultryGroups
}

// Total returns the number of birds across all groups.
func (g PoultryGroups) Total() int {
	return len(g.Reproductives) + len(g.Matrix) + len(g.Male) + len(g.Female)
}

// emptyPoultryGroups is the failure value of Poultries.List.
func emptyPoultryGroups() PoultryGroups {
	return PoultryGroups{
		Reproductives: []Poultry{},
		Matrix:        []Poultry{},
		Male:          []Poultry{},
		Female:        []Poultry{},
	}
}

// Advertising offers a bird for sale.
type Advertising struct {
	ID         string     `json:"id,omitempty"`
	ExternalID string     `json:"externalId,omitempty"`
	Price      FlexFloat  `json:"price,omitempty"`
	Finished   bool       `json:"finished,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type AdvertisingQuestionAnswer struct {
	ID        string     `json:"id,omitempty"`
	Content   string     `json:"content"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
