package logflags

import (
	"testing"
)

func TestSetupWithoutLogFlagRejectsLogstr(t *testing.T) {
	if err := Setup(false, "mapper", nil); err == nil {
		t.Fatal("expected an error when logstr is set without logFlag")
	}
}

func TestSetupEnablesNamedComponents(t *testing.T) {
	mapperFlag, bridgeFlag, wsserverFlag, discoveryFlag, engineFlag = false, false, false, false, false
	if err := Setup(true, "mapper,bridge", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Mapper() || !Bridge() {
		t.Fatal("expected mapper and bridge flags enabled")
	}
	if WSServer() || Discovery() || Engine() {
		t.Fatal("expected other component flags to remain disabled")
	}
}

func TestSetupDefaultsToMapperWhenLogstrEmpty(t *testing.T) {
	mapperFlag, bridgeFlag, wsserverFlag, discoveryFlag, engineFlag = false, false, false, false, false
	if err := Setup(true, "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Mapper() {
		t.Fatal("expected the default logstr to enable the mapper logger")
	}
}
