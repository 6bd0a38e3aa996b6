package handlers

import (
	userRepoPkg "duet/database/repository/user"
	calendarService "duet/services/calendar"
	couplesService "duet/services/couples"
	datesService "duet/services/dates"
	userService "duet/services/user"
)

// HandlerBundle groups all endpoint handlers and the dependencies the
// router needs (the user repo backs the auth middleware).
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Auth     *AuthHandler
	Couples  *CoupleHandler
	Dates    *DateHandler
	Calendar *CalendarHandler
}

// NewHandlerBundle wires handlers over the service layer.
func NewHandlerBundle(
	users userRepoPkg.UserRepository,
	userSvc userService.UserService,
	coupleSvc couplesService.CouplesService,
	dateSvc datesService.DateGeneratorService,
	calSvc calendarService.CalendarService,
) *HandlerBundle {
	return &HandlerBundle{
		UserRepo: users,
		Auth:     &AuthHandler{UserService: userSvc},
		Couples:  &CoupleHandler{CouplesService: coupleSvc},
		Dates:    &DateHandler{DateService: dateSvc},
		Calendar: &CalendarHandler{CalendarService: calSvc, CouplesService: coupleSvc, UserService: userSvc},
	}
}
