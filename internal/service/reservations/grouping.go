package reservations

import "github.com/tourbase/TB-AdmissionService/internal/domain"

// GroupByKey сворачивает плоские строки бронирований в логические бронирования
// по общему ключу группы. Приоритет ключей: явный номер заказа, затем
// эвристический кортеж (packageTourId, customerName, customerPhone), иначе
// строка остается самостоятельным бронированием
//
// Порядок групп детерминирован: группы идут в порядке первого появления
// их участника во входном списке, участники сохраняют исходный порядок
func GroupByKey(reservations []*domain.Reservation) []*domain.ReservationGroup {
	groups := make([]*domain.ReservationGroup, 0)
	byKey := make(map[domain.GroupKey]*domain.ReservationGroup)

	for _, r := range reservations {
		key := domain.GroupKeyOf(r)

		if g, ok := byKey[key]; ok {
			g.Members = append(g.Members, r)
			continue
		}

		g := &domain.ReservationGroup{
			Key:     key,
			Members: []*domain.Reservation{r},
		}
		byKey[key] = g
		groups = append(groups, g)
	}

	return groups
}
