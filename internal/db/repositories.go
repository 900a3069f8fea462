package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Entries    *JournalEntryRepository
	Weeklies   *WeeklyAnalysisRepository
	TrialMarks *TrialMarkRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Entries:    NewJournalEntryRepository(database),
		Weeklies:   NewWeeklyAnalysisRepository(database),
		TrialMarks: NewTrialMarkRepository(database),
	}
}
