package cleaning

import (
	"math"
	"reflect"
	"testing"

	"scrub/domain/core"
	"scrub/domain/table"
	"scrub/ports"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New()
	cols := []table.Column{
		table.NewNumericColumn("age", []float64{20, 30, 0, 40}, []bool{false, false, true, false}),
		table.NewCategoricalColumn("sex", []string{"male", "female", "", "female"}, []bool{false, false, true, false}),
		table.NewNumericColumn("fare", []float64{10, 20, 30, 40}, nil),
	}
	for _, c := range cols {
		if err := tbl.AppendColumn(c); err != nil {
			t.Fatalf("AppendColumn(%s): %v", c.Name, err)
		}
	}
	return tbl
}

func mustCleaner(t *testing.T, tbl *table.Table) *Cleaner {
	t.Helper()
	c, err := NewCleaner(tbl)
	if err != nil {
		t.Fatalf("NewCleaner: %v", err)
	}
	return c
}

func TestNewCleaner_EmptyTable(t *testing.T) {
	if _, err := NewCleaner(table.New()); !core.IsEmptyTableError(err) {
		t.Errorf("NewCleaner(empty) = %v, want empty table error", err)
	}
}

func TestHandleMissing_MeanMedian(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("age", StrategyMean, ""); err != nil {
		t.Fatalf("HandleMissing(mean): %v", err)
	}
	age, _ := c.Table().Column("age")
	if age.MissingCount() != 0 || age.Floats[2] != 30 {
		t.Errorf("mean imputation: values = %v", age.Floats)
	}

	c = mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("age", StrategyMedian, ""); err != nil {
		t.Fatalf("HandleMissing(median): %v", err)
	}
	age, _ = c.Table().Column("age")
	if age.Floats[2] != 30 {
		t.Errorf("median imputation: values = %v", age.Floats)
	}
}

func TestHandleMissing_MeanRequiresNumeric(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("sex", StrategyMean, ""); !core.IsWrongColumnTypeError(err) {
		t.Errorf("HandleMissing(sex, mean) = %v, want wrong column type", err)
	}
}

func TestHandleMissing_Mode(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("sex", StrategyMode, ""); err != nil {
		t.Fatalf("HandleMissing(mode): %v", err)
	}
	sex, _ := c.Table().Column("sex")
	if sex.Strings[2] != "female" || sex.MissingCount() != 0 {
		t.Errorf("mode imputation: values = %v", sex.Strings)
	}
}

func TestHandleMissing_ConstantAndDrop(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("sex", StrategyConstant, "unknown"); err != nil {
		t.Fatalf("HandleMissing(constant): %v", err)
	}
	sex, _ := c.Table().Column("sex")
	if sex.Strings[2] != "unknown" {
		t.Errorf("constant fill: values = %v", sex.Strings)
	}

	c = mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("age", StrategyConstant, "not-a-number"); err == nil {
		t.Error("constant fill with unparseable value should fail")
	}
	if err := c.HandleMissing("age", StrategyConstant, ""); err == nil {
		t.Error("constant fill without a value should fail")
	}

	c = mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("age", StrategyDrop, ""); err != nil {
		t.Fatalf("HandleMissing(drop): %v", err)
	}
	if c.Table().RowCount() != 3 {
		t.Errorf("drop strategy left %d rows, want 3", c.Table().RowCount())
	}
}

func TestHandleMissing_UnknownColumnAndStrategy(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.HandleMissing("nope", StrategyMean, ""); !core.IsColumnNotFoundError(err) {
		t.Errorf("unknown column error = %v", err)
	}
	if err := c.HandleMissing("age", "bogus", ""); err == nil {
		t.Error("unknown strategy should fail")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	tbl := table.New()
	_ = tbl.AppendColumn(table.NewNumericColumn("a", []float64{1, 1, 2, 1}, nil))
	_ = tbl.AppendColumn(table.NewCategoricalColumn("b", []string{"x", "x", "y", "z"}, nil))

	c := mustCleaner(t, tbl)
	if err := c.RemoveDuplicates(nil, false); err != nil {
		t.Fatalf("RemoveDuplicates: %v", err)
	}
	if c.Table().RowCount() != 3 {
		t.Errorf("row count = %d, want 3", c.Table().RowCount())
	}

	// Subset match over column a only: rows 0, 1 and 3 collapse.
	c = mustCleaner(t, tbl)
	if err := c.RemoveDuplicates([]string{"a"}, false); err != nil {
		t.Fatalf("RemoveDuplicates(subset): %v", err)
	}
	b, _ := c.Table().Column("b")
	if !reflect.DeepEqual(b.Strings, []string{"x", "y"}) {
		t.Errorf("keep-first subset dedup kept %v", b.Strings)
	}

	c = mustCleaner(t, tbl)
	if err := c.RemoveDuplicates([]string{"a"}, true); err != nil {
		t.Fatalf("RemoveDuplicates(keep last): %v", err)
	}
	b, _ = c.Table().Column("b")
	if !reflect.DeepEqual(b.Strings, []string{"y", "z"}) {
		t.Errorf("keep-last subset dedup kept %v", b.Strings)
	}
}

func TestRemoveOutliers_IQR(t *testing.T) {
	tbl := table.New()
	_ = tbl.AppendColumn(table.NewNumericColumn("v",
		[]float64{10, 11, 12, 13, 14, 1000}, nil))

	c := mustCleaner(t, tbl)
	if err := c.RemoveOutliers("v", MethodIQR); err != nil {
		t.Fatalf("RemoveOutliers(iqr): %v", err)
	}
	v, _ := c.Table().Column("v")
	for _, x := range v.Floats {
		if x == 1000 {
			t.Error("outlier survived IQR filter")
		}
	}
	if c.Table().RowCount() != 5 {
		t.Errorf("row count = %d, want 5", c.Table().RowCount())
	}
}

func TestRemoveOutliers_ZScoreDropsMissing(t *testing.T) {
	values := make([]float64, 30)
	missing := make([]bool, 30)
	for i := range values {
		values[i] = float64(i % 5)
	}
	values[29] = 1000
	missing[0] = true

	tbl := table.New()
	_ = tbl.AppendColumn(table.NewNumericColumn("v", values, missing))

	c := mustCleaner(t, tbl)
	if err := c.RemoveOutliers("v", MethodZScore); err != nil {
		t.Fatalf("RemoveOutliers(zscore): %v", err)
	}
	// Both the extreme value and the missing row are gone.
	if c.Table().RowCount() != 28 {
		t.Errorf("row count = %d, want 28", c.Table().RowCount())
	}
}

func TestRemoveOutliers_Validation(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.RemoveOutliers("sex", MethodIQR); !core.IsWrongColumnTypeError(err) {
		t.Errorf("outliers on categorical = %v, want wrong column type", err)
	}
	if err := c.RemoveOutliers("fare", "bogus"); err == nil {
		t.Error("unknown method should fail")
	}
}

func TestEncodeCategorical_Label(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.EncodeCategorical("sex", MethodLabel); err != nil {
		t.Fatalf("EncodeCategorical(label): %v", err)
	}
	sex, ok := c.Table().Column("sex")
	if !ok || sex.Kind != table.KindNumeric {
		t.Fatal("label encoding should replace the column with a numeric one")
	}
	// Sorted classes: female=0, male=1; missing row stays missing.
	want := []float64{1, 0, 0, 0}
	if !reflect.DeepEqual(sex.Floats, want) || !sex.IsMissing(2) {
		t.Errorf("label codes = %v missing(2)=%v", sex.Floats, sex.IsMissing(2))
	}
	// Column order preserved.
	if !reflect.DeepEqual(c.Table().ColumnNames(), []string{"age", "sex", "fare"}) {
		t.Errorf("column order = %v", c.Table().ColumnNames())
	}
}

func TestEncodeCategorical_OneHot(t *testing.T) {
	tbl := table.New()
	_ = tbl.AppendColumn(table.NewCategoricalColumn("port",
		[]string{"S", "C", "Q", "S"}, nil))

	c := mustCleaner(t, tbl)
	if err := c.EncodeCategorical("port", MethodOneHot); err != nil {
		t.Fatalf("EncodeCategorical(onehot): %v", err)
	}
	// Sorted categories C, Q, S with the first dropped.
	if !reflect.DeepEqual(c.Table().ColumnNames(), []string{"port_Q", "port_S"}) {
		t.Fatalf("columns = %v", c.Table().ColumnNames())
	}
	s, _ := c.Table().Column("port_S")
	if !reflect.DeepEqual(s.Floats, []float64{1, 0, 0, 1}) {
		t.Errorf("port_S dummy = %v", s.Floats)
	}
}

func TestScaleFeatures(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.ScaleFeatures([]string{"fare"}, MethodMinMax); err != nil {
		t.Fatalf("ScaleFeatures(minmax): %v", err)
	}
	fare, _ := c.Table().Column("fare")
	if !reflect.DeepEqual(fare.Floats, []float64{0, 1.0 / 3, 2.0 / 3, 1}) {
		t.Errorf("minmax scaled = %v", fare.Floats)
	}

	c = mustCleaner(t, sampleTable(t))
	if err := c.ScaleFeatures([]string{"fare"}, MethodStandard); err != nil {
		t.Fatalf("ScaleFeatures(standard): %v", err)
	}
	fare, _ = c.Table().Column("fare")
	var sum float64
	for _, v := range fare.Floats {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("standard scaled values do not center on zero: %v", fare.Floats)
	}

	c = mustCleaner(t, sampleTable(t))
	if err := c.ScaleFeatures([]string{"sex"}, MethodStandard); !core.IsWrongColumnTypeError(err) {
		t.Errorf("scaling categorical = %v, want wrong column type", err)
	}
	if err := c.ScaleFeatures(nil, MethodStandard); err == nil {
		t.Error("scaling no columns should fail")
	}
}

func TestScaleFeatures_PreservesMissing(t *testing.T) {
	c := mustCleaner(t, sampleTable(t))
	if err := c.ScaleFeatures([]string{"age"}, MethodRobust); err != nil {
		t.Fatalf("ScaleFeatures(robust): %v", err)
	}
	age, _ := c.Table().Column("age")
	if !age.IsMissing(2) {
		t.Error("scaling should not fill missing values")
	}
}

func TestDropConstantColumns(t *testing.T) {
	tbl := table.New()
	_ = tbl.AppendColumn(table.NewCategoricalColumn("country", []string{"USA", "USA", "USA"}, nil))
	_ = tbl.AppendColumn(table.NewNumericColumn("x", []float64{1, 2, 3}, nil))
	_ = tbl.AppendColumn(table.NewNumericColumn("allmissing", []float64{0, 0, 0}, []bool{true, true, true}))

	c := mustCleaner(t, tbl)
	dropped, err := c.DropConstantColumns()
	if err != nil {
		t.Fatalf("DropConstantColumns: %v", err)
	}
	if !reflect.DeepEqual(dropped, []string{"country", "allmissing"}) {
		t.Errorf("dropped = %v", dropped)
	}
	if !reflect.DeepEqual(c.Table().ColumnNames(), []string{"x"}) {
		t.Errorf("remaining columns = %v", c.Table().ColumnNames())
	}
}

func TestService_ApplyLeavesInputUntouched(t *testing.T) {
	tbl := sampleTable(t)
	svc := NewService()

	cleaned, err := svc.Apply(tbl, ports.CleaningRequest{
		Op:       ports.OpHandleMissing,
		Column:   "age",
		Strategy: StrategyMean,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	origAge, _ := tbl.Column("age")
	cleanedAge, _ := cleaned.Column("age")
	if origAge.MissingCount() != 1 {
		t.Error("Apply mutated the input table")
	}
	if cleanedAge.MissingCount() != 0 {
		t.Error("Apply did not clean the returned table")
	}
}

func TestService_UnknownOp(t *testing.T) {
	if _, err := NewService().Apply(sampleTable(t), ports.CleaningRequest{Op: "bogus"}); err == nil {
		t.Error("unknown operation should fail")
	}
}
