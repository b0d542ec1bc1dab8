package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"limitUpRadar/internal/model"
)

const excelSheetName = "一进二候选"

// WriteExcel 把一进二候选导出为 xlsx，候选为空时只写表头。
func WriteExcel(path string, date string, candidates []model.BreakoutCandidate) error {
	wb, err := buildExcel(date, candidates)
	if err != nil {
		return err
	}
	defer wb.Close()
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save excel: %w", err)
	}
	return nil
}

func buildExcel(date string, candidates []model.BreakoutCandidate) (*excelize.File, error) {
	wb := excelize.NewFile()
	wb.SetSheetName("Sheet1", excelSheetName)
	headers := []string{"日期", "代码", "名称", "收盘价", "涨幅%", "近5日涨幅%", "主力净买入(万)", "流通市值(亿)", "换手%", "行业", "封板时间", "炸板次数", "连板数", "涨停原因"}
	for i, h := range headers {
		wb.SetCellValue(excelSheetName, excelColumn(i)+"1", h)
	}
	for idx, c := range candidates {
		row := idx + 2
		wb.SetCellValue(excelSheetName, excelColumn(0)+fmt.Sprint(row), date)
		wb.SetCellValue(excelSheetName, excelColumn(1)+fmt.Sprint(row), c.Code)
		wb.SetCellValue(excelSheetName, excelColumn(2)+fmt.Sprint(row), c.Name)
		wb.SetCellValue(excelSheetName, excelColumn(3)+fmt.Sprint(row), c.ClosePrice)
		wb.SetCellValue(excelSheetName, excelColumn(4)+fmt.Sprint(row), c.ChangePct)
		wb.SetCellValue(excelSheetName, excelColumn(5)+fmt.Sprint(row), c.FiveDayChange)
		wb.SetCellValue(excelSheetName, excelColumn(6)+fmt.Sprint(row), c.MainNetInflow)
		wb.SetCellValue(excelSheetName, excelColumn(7)+fmt.Sprint(row), c.CirculatingCap)
		wb.SetCellValue(excelSheetName, excelColumn(8)+fmt.Sprint(row), c.TurnoverRatio)
		wb.SetCellValue(excelSheetName, excelColumn(9)+fmt.Sprint(row), c.Industry)
		wb.SetCellValue(excelSheetName, excelColumn(10)+fmt.Sprint(row), c.SealTime)
		wb.SetCellValue(excelSheetName, excelColumn(11)+fmt.Sprint(row), c.BrokenCount)
		wb.SetCellValue(excelSheetName, excelColumn(12)+fmt.Sprint(row), c.Streak)
		wb.SetCellValue(excelSheetName, excelColumn(13)+fmt.Sprint(row), c.Reason)
	}
	_ = wb.SetColWidth(excelSheetName, "A", excelColumn(len(headers)-1), 16)
	if idx, err := wb.GetSheetIndex(excelSheetName); err == nil {
		wb.SetActiveSheet(idx)
	}
	return wb, nil
}

func excelColumn(idx int) string {
	col := ""
	i := idx + 1
	for i > 0 {
		i--
		col = string(rune('A'+i%26)) + col
		i /= 26
	}
	return col
}
