// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	ImageURL     string       `json:"imageUrl"`
	LastLoginAt  sql.NullTime `json:"lastLoginAt"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type Event struct {
	ID         int64         `json:"id"`
	Level      string        `json:"level"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	UserID     sql.NullInt64 `json:"userId"`
	Metadata   string        `json:"metadata"`
	IpAddress  string        `json:"ipAddress"`
	RequestUrl string        `json:"requestUrl"`
	CreatedAt  time.Time     `json:"createdAt"`
}

type BlogPost struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	CoverImageURL string        `json:"coverImageUrl"`
	Status        string        `json:"status"`
	AuthorID      sql.NullInt64 `json:"authorId"`
	PublishedAt   sql.NullTime  `json:"publishedAt"`
	ScheduledAt   sql.NullTime  `json:"scheduledAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Faq struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	SortOrder int64     `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Ministry struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	LeaderName   string    `json:"leaderName"`
	MeetingTime  string    `json:"meetingTime"`
	ContactEmail string    `json:"contactEmail"`
	SortOrder    int64     `json:"sortOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type StaffMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"imageUrl"`
	Email     string    `json:"email"`
	SortOrder int64     `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MissionPartner struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	WebsiteURL  string    `json:"websiteUrl"`
	ImageURL    string    `json:"imageUrl"`
	SortOrder   int64     `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type HomeSlide struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	ImageURL   string    `json:"imageUrl"`
	LinkURL    string    `json:"linkUrl"`
	ButtonText string    `json:"buttonText"`
	SortOrder  int64     `json:"sortOrder"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type AnnouncementBanner struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	LinkURL   string    `json:"linkUrl"`
	LinkText  string    `json:"linkText"`
	Variant   string    `json:"variant"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DonateSetting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DonateURL   string    `json:"donateUrl"`
	ButtonText  string    `json:"buttonText"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CurrentSeries struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	SermonURL   string       `json:"sermonUrl"`
	StartDate   sql.NullTime `json:"startDate"`
	EndDate     sql.NullTime `json:"endDate"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

type PrayerRequest struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Request     string    `json:"request"`
	IsAnonymous bool      `json:"isAnonymous"`
	IsPublic    bool      `json:"isPublic"`
	IsRead      bool      `json:"isRead"`
	IsAnswered  bool      `json:"isAnswered"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VolunteerSignup struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	MinistryID   sql.NullInt64 `json:"ministryId"`
	Interests    string        `json:"interests"`
	Availability string        `json:"availability"`
	Message      string        `json:"message"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Upload struct {
	ID           int64         `json:"id"`
	Key          string        `json:"key"`
	Endpoint     string        `json:"endpoint"`
	OriginalName string        `json:"originalName"`
	MimeType     string        `json:"mimeType"`
	Size         int64         `json:"size"`
	URL          string        `json:"url"`
	UploadedBy   sql.NullInt64 `json:"uploadedBy"`
	CreatedAt    time.Time     `json:"createdAt"`
}
