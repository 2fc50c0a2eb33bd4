package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimmedSum_LessThanThreeScores(t *testing.T) {
	// Act & Assert: балл не определен, пока оценок меньше трех
	assert.Nil(t, TrimmedSum(nil), "Пустой набор оценок не должен давать балл")
	assert.Nil(t, TrimmedSum([]float64{8.0}), "Одна оценка не должна давать балл")
	assert.Nil(t, TrimmedSum([]float64{8.0, 9.0}), "Две оценки не должны давать балл")
}

func TestTrimmedSum_ThreeScores(t *testing.T) {
	// Act
	result := TrimmedSum([]float64{7.0, 8.5, 9.0})

	// Assert: при ровно трех оценках суммируются все три
	require.NotNil(t, result)
	assert.InDelta(t, 24.5, *result, 0.0001, "Три оценки должны суммироваться целиком")
}

func TestTrimmedSum_FourScores(t *testing.T) {
	// Act: отбрасываются минимальная (6.0) и максимальная (9.5)
	result := TrimmedSum([]float64{9.5, 6.0, 8.0, 7.5})

	// Assert
	require.NotNil(t, result)
	assert.InDelta(t, 15.5, *result, 0.0001, "При четырех оценках должны остаться две средние")
}

func TestTrimmedSum_FiveScores(t *testing.T) {
	// Act: отбрасываются 6.0 и 10.0, остаются 7.0+8.0+9.0
	result := TrimmedSum([]float64{6.0, 7.0, 8.0, 9.0, 10.0})

	// Assert
	require.NotNil(t, result)
	assert.InDelta(t, 24.0, *result, 0.0001, "Для панели из пяти судей суммируются три средние оценки")
}

func TestTrimmedSum_MoreThanFiveScores(t *testing.T) {
	// Act: после отбрасывания 5.0 и 10.0 остаются {6.0, 7.0, 8.0, 9.0},
	// суммируются три старшие из них
	result := TrimmedSum([]float64{5.0, 6.0, 7.0, 8.0, 9.0, 10.0})

	// Assert
	require.NotNil(t, result)
	assert.InDelta(t, 24.0, *result, 0.0001)
}

func TestTrimmedSum_Idempotent(t *testing.T) {
	// Arrange
	values := []float64{8.1, 7.4, 9.2, 6.8, 8.8}

	// Act
	first := TrimmedSum(values)
	second := TrimmedSum(values)

	// Assert: повторный вызов на том же наборе дает тот же результат
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second, "Повторная агрегация не должна менять результат")
}

func TestTrimmedSum_DoesNotMutateInput(t *testing.T) {
	// Arrange
	values := []float64{9.0, 7.0, 8.0}

	// Act
	_ = TrimmedSum(values)

	// Assert: входной срез не переупорядочивается
	assert.Equal(t, []float64{9.0, 7.0, 8.0}, values)
}

func TestIsValidKataScore(t *testing.T) {
	// Act & Assert: границы диапазона включительно
	assert.True(t, IsValidKataScore(5.0))
	assert.True(t, IsValidKataScore(10.0))
	assert.True(t, IsValidKataScore(7.5))

	assert.False(t, IsValidKataScore(4.9), "Оценка ниже 5.0 должна быть невалидной")
	assert.False(t, IsValidKataScore(10.1), "Оценка выше 10.0 должна быть невалидной")
	assert.False(t, IsValidKataScore(0))
}
