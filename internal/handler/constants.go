// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteEvents is the public event catalog route.
	RouteEvents = "/events"
	// RouteEventsID is the event detail route pattern.
	RouteEventsID = RouteEvents + RouteParamID
	// RouteEventsCreate is the event creation route.
	RouteEventsCreate = RouteEvents + "/create"
	// RouteEventsIDEdit is the event edit route pattern.
	RouteEventsIDEdit = RouteEventsID + "/edit"
	// RouteEventsIDDelete is the event delete route pattern.
	RouteEventsIDDelete = RouteEventsID + "/delete"
	// RouteEventsIDRegister is the event registration route pattern.
	RouteEventsIDRegister = RouteEventsID + "/register"

	// RouteLogin is the student/organizer login route.
	RouteLogin = "/login"
	// RouteAdminLogin is the admin login route.
	RouteAdminLogin = "/admin"
	// RouteRegister is the account creation route.
	RouteRegister = "/register"
	// RouteForgotPassword is the forgot-password route.
	RouteForgotPassword = "/forgot-password"
	// RouteResetPassword is the reset-password route pattern.
	RouteResetPassword = "/reset-password/{token}"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteDashboard is the role-dispatching dashboard root.
	RouteDashboard = "/dashboard"
	// RouteProfile is the profile route under the dashboard.
	RouteProfile = "/profile"
	// RouteRegistrations is the registrations route under the dashboard.
	RouteRegistrations = "/registrations"
	// RouteCertificates is the certificates route under the dashboard.
	RouteCertificates = "/certificates"
	// RouteUsers is the admin users route under the dashboard.
	RouteUsers = "/users"
)

const (
	redirectLogin            = "/auth/login"
	redirectAdminLogin       = "/auth/admin"
	redirectRegister         = "/auth/register"
	redirectForgotPassword   = "/auth/forgot-password"
	redirectDashboard        = RouteDashboard
	redirectDashboardAdmin   = RouteDashboard + "/admin"
	redirectAdminUsers       = redirectDashboardAdmin + RouteUsers
	redirectAdminEvents      = redirectDashboardAdmin + RouteEvents
	redirectOrganizer        = RouteDashboard + "/organizer"
	redirectOrganizerEvents  = redirectOrganizer + RouteEvents
	redirectMyRegistrations  = RouteDashboard + RouteRegistrations
	redirectMyCertificates   = RouteDashboard + RouteCertificates
	redirectProfile          = RouteDashboard + RouteProfile
	redirectEvents           = RouteEvents
	redirectEventsCreate     = RouteEventsCreate

	redirectEventsIDFmt     = RouteEvents + "/%s"
	redirectEventsIDEditFmt = redirectEventsIDFmt + "/edit"
	redirectResetFmt        = "/auth/reset-password/%s"
)
