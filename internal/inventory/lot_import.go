package inventory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"foodshop-backend/internal/audit"
	"foodshop-backend/internal/auth"
	"foodshop-backend/internal/database"
	"foodshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// importRow is one parsed line of the receipt sheet. Expected columns:
// ingredient name | quantity | unit price | received date | expiry date.
// The last two columns are optional.
type importRow struct {
	ingredientID uint
	quantity     decimal.Decimal
	unitPrice    decimal.Decimal
	receivedDate time.Time
	expiryDate   *time.Time
}

// POST /api/inventory-lots/import
// Bulk stock receipt from an .xlsx delivery sheet. Rows that cannot be
// matched or parsed are reported back, valid rows are committed together.
func ImportInventoryLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File upload failed: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not open file: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read Excel file: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}
		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read sheet: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		var ingredients []models.Ingredient
		if err := database.DB.Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ingredients")
		}
		byName := make(map[string]uint, len(ingredients))
		for _, ing := range ingredients {
			byName[normalizeName(ing.Name)] = ing.ID
		}

		startIndex := 0
		if isHeaderRow(rows[0]) {
			startIndex = 1
		}

		var parsed []importRow
		var skipped []string

		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			line := i + 1
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			r, reason := parseImportRow(row, byName)
			if reason != "" {
				skipped = append(skipped, fmt.Sprintf("row %d: %s", line, reason))
				continue
			}
			parsed = append(parsed, r)
		}

		if len(parsed) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":  false,
				"imported": 0,
				"skipped":  skipped,
				"message":  "No valid rows found in file",
			})
		}

		touched := make(map[uint]bool, len(parsed))
		ids := make([]uint, 0, len(parsed))
		for _, r := range parsed {
			if !touched[r.ingredientID] {
				touched[r.ingredientID] = true
				ids = append(ids, r.ingredientID)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		var created []models.InventoryLot
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			// Same lock order as order reservation: ascending ingredient id.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ?", ids).
				Order("id ASC").
				Find(&[]models.Ingredient{}).Error; err != nil {
				return err
			}
			for _, r := range parsed {
				lot := models.InventoryLot{
					IngredientID:      r.ingredientID,
					QuantityReceived:  r.quantity,
					QuantityRemaining: r.quantity,
					UnitPrice:         r.unitPrice,
					ReceivedDate:      r.receivedDate,
					ExpiryDate:        r.expiryDate,
				}
				if err := tx.Create(&lot).Error; err != nil {
					return err
				}
				created = append(created, lot)
			}
			for _, id := range ids {
				if err := RefreshIngredientStatus(tx, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Import failed, no rows were saved")
		}

		userID, userName, uerr := auth.CurrentUser(c)
		if uerr == nil {
			for _, lot := range created {
				_ = audit.WriteLog(audit.LogOptions{
					UserID:      userID,
					UserName:    userName,
					EntityType:  "inventory_lot",
					EntityID:    lot.ID,
					Action:      models.AuditActionCreate,
					Description: "Lot imported from " + fileHeader.Filename,
					After:       lot,
				})
			}
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"imported": len(created),
			"skipped":  skipped,
			"message":  fmt.Sprintf("%d lots imported, %d rows skipped", len(created), len(skipped)),
		})
	}
}

func parseImportRow(row []string, byName map[string]uint) (importRow, string) {
	var r importRow

	name := strings.TrimSpace(row[0])
	id, ok := byName[normalizeName(name)]
	if !ok {
		return r, "unknown ingredient '" + name + "'"
	}
	r.ingredientID = id

	if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
		return r, "missing quantity"
	}
	qty, err := decimal.NewFromString(normalizeNumber(row[1]))
	if err != nil || !qty.IsPositive() {
		return r, "invalid quantity '" + row[1] + "'"
	}
	r.quantity = qty

	r.unitPrice = decimal.Zero
	if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
		price, err := decimal.NewFromString(normalizeNumber(row[2]))
		if err != nil || price.IsNegative() {
			return r, "invalid unit price '" + row[2] + "'"
		}
		r.unitPrice = price
	}

	r.receivedDate = time.Now()
	if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
		d, err := parseSheetDate(row[3])
		if err != nil {
			return r, "invalid received date '" + row[3] + "'"
		}
		r.receivedDate = d
	}

	if len(row) >= 5 && strings.TrimSpace(row[4]) != "" {
		d, err := parseSheetDate(row[4])
		if err != nil {
			return r, "invalid expiry date '" + row[4] + "'"
		}
		r.expiryDate = &d
	}

	return r, ""
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "INGREDIENT") || strings.Contains(first, "NAME") ||
		strings.Contains(first, "PRODUCT")
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizeNumber accepts comma decimal separators from spreadsheets.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

func parseSheetDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01-02-06", "2/1/2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
