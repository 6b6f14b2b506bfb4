package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/models"
	"bms_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

// Machine readable codes attached to 401/502 answers.
const (
	codeNoSession         = "NO_SESSION"
	codeSessionExpired    = "SESSION_EXPIRED"
	codeAuthFailed        = "AUTH_FAILED"
	codeVendorUnreachable = "VENDOR_UNREACHABLE"
)

// The dashboard posts the full vendor payload. Only the operator fields
// are read; numeric fields accept JSON numbers or numeric strings.

type vendorLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type setTempRequest struct {
	SetTemp json.Number `json:"device_vfdReadingSetTemp"`
}

type controlACRequest struct {
	Status json.Number `json:"device_vfdReadingStatus"`
	Freq   json.Number `json:"device_vfdReadingFreq"`
}

type scheduleStatusRequest struct {
	ScheduleStatus json.Number `json:"device_vfdReadingScheduleStatus"`
	Freq           json.Number `json:"device_vfdReadingFreq"`
}

type scheduleTimeRequest struct {
	ScheduleStatus json.Number `json:"device_vfdReadingScheduleStatus"`
	Freq           json.Number `json:"device_vfdReadingFreq"`
	OnTime         string      `json:"device_vfdReadingScheduleOnTime"`
	OffTime        string      `json:"device_vfdReadingScheduleOffTime"`
}

// statsRequest accepts either the friendly names or the vendor's Parm3/Parm4.
type statsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Parm3     string `json:"Parm3"`
	Parm4     string `json:"Parm4"`
}

// numberField converts n, reporting ok=false when the field was absent.
func numberField(name string, n json.Number) (v float64, ok bool, err error) {
	if strings.TrimSpace(n.String()) == "" {
		return 0, false, nil
	}
	v, err = n.Float64()
	if err != nil {
		return 0, false, fmt.Errorf("%s: %q is not a number", name, n.String())
	}
	return v, true, nil
}

func requiredNumber(name string, n json.Number) (float64, error) {
	v, ok, err := numberField(name, n)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	return v, nil
}

func optionalNumber(name string, n json.Number) (float64, error) {
	v, _, err := numberField(name, n)
	return v, err
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	if h.log != nil {
		h.log.Infow("bad_request", "path", c.FullPath(), "err", err)
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// writeVendorError maps a forwarder failure onto the HTTP answer. A vendor
// logic failure keeps the uniform result shape with success=false.
func (h *Handler) writeVendorError(c *gin.Context, op string, res models.VendorResult, err error) {
	switch {
	case errors.Is(err, bms.ErrInvalidCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, bms.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": bms.MsgNoSession, "code": codeNoSession})
	case errors.Is(err, bms.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": bms.MsgSessionExpired, "code": codeSessionExpired})
	case errors.Is(err, bms.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": codeAuthFailed})
	case errors.Is(err, bms.ErrVendorUnreachable):
		if h.log != nil {
			h.log.Errorw("vendor_unreachable", "op", op, "err", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "BMS is unreachable", "code": codeVendorUnreachable})
	case errors.Is(err, bms.ErrVendorLogic):
		c.JSON(http.StatusOK, res)
	default:
		if h.log != nil {
			h.log.Errorw("vendor_call_failed", "op", op, "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": bms.FailureMessage(op)})
	}
}

func (h *Handler) respondVendor(c *gin.Context, op string, res models.VendorResult, err error) {
	if err != nil {
		h.writeVendorError(c, op, res, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Log in to the BMS
// @Description  Empty credentials fall back to the configured BMS account.
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      vendorLoginRequest  false  "BMS credentials"
// @Success      200   {object}  map[string]interface{}  "message, cookies"
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/login [post]
// @Security     BearerAuth
func (h *Handler) vendorLogin(c *gin.Context) {
	var input vendorLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, err)
		return
	}
	if strings.TrimSpace(input.Username) == "" {
		input.Username = h.opts.DefaultUsername
	}
	if input.Password == "" {
		input.Password = h.opts.DefaultPassword
	}
	if input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	sess, err := h.services.Control.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("bms_login_failed", "username", input.Username, "err", err)
		}
		h.writeVendorError(c, "Login", models.VendorResult{}, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "cookies": sess})
}

// @Summary      Drop the BMS session
// @Tags         bms
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/logout [post]
// @Security     BearerAuth
func (h *Handler) vendorLogout(c *gin.Context) {
	if err := h.services.Control.Logout(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Errorw("bms_logout_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// @Summary      Set the target temperature
// @Description  Accepted range is 23 to 28 °C inclusive.
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      setTempRequest  true  "Temperature payload"
// @Success      200   {object}  models.VendorResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/set-temp [post]
// @Security     BearerAuth
func (h *Handler) setTemperature(c *gin.Context) {
	var input setTempRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	celsius, err := requiredNumber("device_vfdReadingSetTemp", input.SetTemp)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	res, err := h.services.Control.SetTemperature(c.Request.Context(), service.TempParams{Celsius: celsius})
	h.respondVendor(c, "SetTemperature", res, err)
}

// @Summary      Switch the AC on or off
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      controlACRequest  true  "Status 1 is on, 0 is off"
// @Success      200   {object}  models.VendorResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/control-ac [post]
// @Security     BearerAuth
func (h *Handler) controlAC(c *gin.Context) {
	var input controlACRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	status, err := requiredNumber("device_vfdReadingStatus", input.Status)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	freq, err := optionalNumber("device_vfdReadingFreq", input.Freq)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	res, err := h.services.Control.ControlAC(c.Request.Context(), service.ACParams{On: status != 0, Frequency: freq})
	h.respondVendor(c, "ControlAc", res, err)
}

// @Summary      Enable or disable the schedule
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      scheduleStatusRequest  true  "Schedule status 1 is enabled"
// @Success      200   {object}  models.VendorResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/set-schedule-status [post]
// @Security     BearerAuth
func (h *Handler) setScheduleStatus(c *gin.Context) {
	var input scheduleStatusRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	enabled, err := requiredNumber("device_vfdReadingScheduleStatus", input.ScheduleStatus)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	freq, err := optionalNumber("device_vfdReadingFreq", input.Freq)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	res, err := h.services.Control.SetScheduleStatus(c.Request.Context(), service.ScheduleStatusParams{
		Enabled:   enabled != 0,
		Frequency: freq,
	})
	h.respondVendor(c, "SetScheduleStatus", res, err)
}

// @Summary      Set the daily on/off times
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      scheduleTimeRequest  true  "Times are HH:MM"
// @Success      200   {object}  models.VendorResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/set-schedule-time [post]
// @Security     BearerAuth
func (h *Handler) setScheduleTime(c *gin.Context) {
	var input scheduleTimeRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	enabled, err := requiredNumber("device_vfdReadingScheduleStatus", input.ScheduleStatus)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	freq, err := optionalNumber("device_vfdReadingFreq", input.Freq)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	res, err := h.services.Control.SetScheduleTime(c.Request.Context(), service.ScheduleTimeParams{
		Enabled:   enabled != 0,
		OnTime:    strings.TrimSpace(input.OnTime),
		OffTime:   strings.TrimSpace(input.OffTime),
		Frequency: freq,
	})
	h.respondVendor(c, "SetScheduleTime", res, err)
}

// currentStatusResponse embeds the vendor result and adds the parsed device.
type currentStatusResponse struct {
	models.VendorResult
	Device *models.DeviceStatus `json:"device,omitempty"`
}

// @Summary      Read live device attributes
// @Description  The parsed snapshot is also persisted for /api/state and /ws.
// @Tags         bms
// @Produce      json
// @Success      200  {object}  currentStatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/get-current-status [post]
// @Security     BearerAuth
func (h *Handler) getCurrentStatus(c *gin.Context) {
	res, device, err := h.services.Control.CurrentStatus(c.Request.Context())
	if err != nil {
		h.writeVendorError(c, "GetCurrentStatus", res, err)
		return
	}
	c.JSON(http.StatusOK, currentStatusResponse{VendorResult: res, Device: device})
}

// statsRange resolves the query window. A date-only end covers the whole day.
func statsRange(start, end string) (service.StatsParams, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return service.StatsParams{}, errors.New("start_date and end_date are required")
	}
	from, err := parseQueryTime(start)
	if err != nil {
		return service.StatsParams{}, err
	}
	to, err := parseQueryTime(end)
	if err != nil {
		return service.StatsParams{}, err
	}
	if isDateOnly(end) {
		to = to.Add(24*time.Hour - time.Second)
	}
	return service.StatsParams{From: from, To: to}, nil
}

// @Summary      Fetch historical VFD rows
// @Tags         bms
// @Accept       json
// @Produce      json
// @Param        body  body      statsRequest  true  "Range as start_date/end_date or Parm3/Parm4"
// @Success      200   {object}  models.VendorResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/vfd-stats [post]
// @Security     BearerAuth
func (h *Handler) getVfdStats(c *gin.Context) {
	var input statsRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	start, end := input.StartDate, input.EndDate
	if start == "" {
		start = input.Parm3
	}
	if end == "" {
		end = input.Parm4
	}
	p, err := statsRange(start, end)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	res, err := h.services.Control.Stats(c.Request.Context(), p)
	h.respondVendor(c, "GetStats", res, err)
}

// @Summary      Download VFD stats
// @Tags         bms
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        from    query  string  true   "Start (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to      query  string  true   "End; date-only covers the whole day"  example(2025-08-31)
// @Param        format  query  string  false  "Output format"  Enums(xlsx,pdf)
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/vfd-stats/export [get]
// @Security     BearerAuth
func (h *Handler) exportVfdStats(c *gin.Context) {
	p, err := statsRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	format := c.DefaultQuery("format", service.FormatXLSX)

	out, err := h.services.Reports.ExportStats(c.Request.Context(), p, format)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			h.badRequest(c, err)
			return
		}
		var vendorErr *bms.VendorError
		if errors.As(err, &vendorErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "BMS Error: " + vendorErr.Message})
			return
		}
		h.writeVendorError(c, "GetStats", models.VendorResult{}, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

// @Summary      Last known device snapshot
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  models.DeviceStatus
// @Failure      500  {object}  map[string]string
// @Router       /api/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("get_state_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load device state"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     serviceName,
		"version":     h.opts.Version,
		"environment": h.opts.Environment,
	})
}
