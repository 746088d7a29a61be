package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ItemKind discriminates the closed set of circulating item families.
type ItemKind string

const (
	ItemKindBook     ItemKind = "book"
	ItemKindMagazine ItemKind = "magazine"
	ItemKindDvd      ItemKind = "dvd"
)

// Item is the capability surface shared by every circulating unit.
// Borrow and Return only manage the item's own availability; eligibility
// checks (blocked patron, loan limits) belong to the ledger.
type Item interface {
	Kind() ItemKind
	// Identifier returns the registry key: ISBN for books, ISSN for
	// magazines, title-author-year for DVDs.
	Identifier() string
	Title() string
	Author() string
	PublicationYear() int
	Available() bool
	BorrowCount() int
	// Borrow marks the item unavailable and bumps the borrow count.
	// It reports false, without mutation, when the item is already out.
	Borrow() bool
	// Return marks the item available again. It reports false when the
	// item was not out.
	Return() bool
	// LoanPeriodDays is the fixed per-kind period used as the renewal
	// extension length.
	LoanPeriodDays() int
}

var (
	// ISBN-13: 978/979 prefix, nine digits and a check digit, hyphens optional.
	isbnPattern = regexp.MustCompile(`^(?:978|979)(?:-?[0-9]){9}-?[0-9X]$`)
	issnPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{3}[0-9X]$`)
)

// itemCore carries the attributes common to all item kinds.
type itemCore struct {
	title           string
	author          string
	publicationYear int
	available       bool
	borrowCount     int
}

func newItemCore(title, author string, publicationYear int) (itemCore, error) {
	if title == "" {
		return itemCore{}, errors.New("title cannot be empty")
	}
	if author == "" {
		return itemCore{}, errors.New("author cannot be empty")
	}
	if publicationYear <= 0 || publicationYear > time.Now().Year() {
		return itemCore{}, fmt.Errorf("publication year %d is invalid", publicationYear)
	}
	return itemCore{
		title:           title,
		author:          author,
		publicationYear: publicationYear,
		available:       true,
	}, nil
}

func (c *itemCore) Title() string { return c.title }
func (c *itemCore) Author() string { return c.author }
func (c *itemCore) PublicationYear() int { return c.publicationYear }
func (c *itemCore) Available() bool { return c.available }
func (c *itemCore) BorrowCount() int { return c.borrowCount }

func (c *itemCore) Borrow() bool {
	if !c.available {
		return false
	}
	c.available = false
	c.borrowCount++
	return true
}

func (c *itemCore) Return() bool {
	if c.available {
		return false
	}
	c.available = true
	return true
}

// Book is a circulating book identified by its ISBN.
type Book struct {
	itemCore
	isbn string
}

// NewBook validates and builds a book. A malformed but non-empty ISBN is
// accepted and reported back as a warning.
func NewBook(title, author string, publicationYear int, isbn string) (*Book, []string, error) {
	core, err := newItemCore(title, author, publicationYear)
	if err != nil {
		return nil, nil, err
	}
	if isbn == "" {
		return nil, nil, errors.New("isbn cannot be empty")
	}
	var warnings []string
	if !isbnPattern.MatchString(isbn) {
		warnings = append(warnings, fmt.Sprintf("isbn %q does not match the ISBN-13 format", isbn))
	}
	return &Book{itemCore: core, isbn: isbn}, warnings, nil
}

func (b *Book) Kind() ItemKind { return ItemKindBook }
func (b *Book) Identifier() string { return b.isbn }
func (b *Book) ISBN() string { return b.isbn }
func (b *Book) LoanPeriodDays() int { return 15 }

// Magazine is a circulating magazine issue identified by its ISSN.
// The common author field holds the editor.
type Magazine struct {
	itemCore
	issn          string
	editionNumber int
}

// NewMagazine validates and builds a magazine. A malformed but non-empty
// ISSN is accepted and reported back as a warning.
func NewMagazine(title, editor string, publicationYear int, issn string, editionNumber int) (*Magazine, []string, error) {
	core, err := newItemCore(title, editor, publicationYear)
	if err != nil {
		return nil, nil, err
	}
	if issn == "" {
		return nil, nil, errors.New("issn cannot be empty")
	}
	if editionNumber <= 0 {
		return nil, nil, fmt.Errorf("edition number must be a positive integer, got %d", editionNumber)
	}
	var warnings []string
	if !issnPattern.MatchString(issn) {
		warnings = append(warnings, fmt.Sprintf("issn %q does not match the NNNN-NNNC format", issn))
	}
	return &Magazine{itemCore: core, issn: issn, editionNumber: editionNumber}, warnings, nil
}

func (m *Magazine) Kind() ItemKind { return ItemKindMagazine }
func (m *Magazine) Identifier() string { return m.issn }
func (m *Magazine) ISSN() string { return m.issn }
func (m *Magazine) EditionNumber() int { return m.editionNumber }
func (m *Magazine) Editor() string { return m.author }
func (m *Magazine) LoanPeriodDays() int { return 7 }

// Dvd is a circulating DVD. It has no natural external identifier, so the
// registry key is derived from title, director and year. The common author
// field holds the director.
type Dvd struct {
	itemCore
}

// NewDvd validates and builds a DVD.
func NewDvd(title, director string, publicationYear int) (*Dvd, []string, error) {
	if director == "" {
		return nil, nil, errors.New("director cannot be empty")
	}
	core, err := newItemCore(title, director, publicationYear)
	if err != nil {
		return nil, nil, err
	}
	return &Dvd{itemCore: core}, nil, nil
}

func (d *Dvd) Kind() ItemKind { return ItemKindDvd }

func (d *Dvd) Identifier() string {
	return d.title + "-" + d.author + "-" + strconv.Itoa(d.publicationYear)
}

func (d *Dvd) Director() string { return d.author }
func (d *Dvd) LoanPeriodDays() int { return 7 }
